package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNacked = errors.New("queue: broker rejected message")

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// session is one connection plus a confirm-mode channel.
type session interface {
	declare(queue string) error
	publish(ctx context.Context, queue string, msg amqp.Publishing) (confirmation, error)
	closed() bool
	close() error
}

type dialFunc func(url string) (session, error)

// AMQPProducer keeps a long-lived connection and waits for a publisher
// confirm on every message. A dropped connection is redialed on the next
// publish.
type AMQPProducer struct {
	url     string
	dial    dialFunc
	timeout time.Duration

	mu       sync.Mutex
	sess     session
	declared map[string]bool
}

func NewAMQPProducer(url string, confirmTimeout time.Duration) *AMQPProducer {
	return newAMQPProducer(url, confirmTimeout, dialAMQP)
}

func newAMQPProducer(url string, confirmTimeout time.Duration, dial dialFunc) *AMQPProducer {
	if confirmTimeout <= 0 {
		confirmTimeout = 5 * time.Second
	}
	return &AMQPProducer{
		url:      url,
		dial:     dial,
		timeout:  confirmTimeout,
		declared: map[string]bool{},
	}
}

func (p *AMQPProducer) Publish(ctx context.Context, queue string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.publishLocked(ctx, queue, payload)
	if err != nil && errors.Is(err, amqp.ErrClosed) {
		log.Warn("queue: channel closed, redialing", "queue", queue)
		p.resetLocked()
		err = p.publishLocked(ctx, queue, payload)
	}
	return err
}

func (p *AMQPProducer) publishLocked(ctx context.Context, queue string, payload []byte) error {
	sess, err := p.sessionLocked()
	if err != nil {
		return err
	}

	if !p.declared[queue] {
		if err := sess.declare(queue); err != nil {
			return fmt.Errorf("declare %s: %w", queue, err)
		}
		p.declared[queue] = true
	}

	confirm, err := sess.publish(ctx, queue, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", queue, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	acked, err := confirm.WaitContext(waitCtx)
	if err != nil {
		return fmt.Errorf("confirm %s: %w", queue, err)
	}
	if !acked {
		return ErrNacked
	}
	return nil
}

func (p *AMQPProducer) sessionLocked() (session, error) {
	if p.sess != nil && !p.sess.closed() {
		return p.sess, nil
	}
	p.resetLocked()

	sess, err := p.dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	p.sess = sess
	return sess, nil
}

func (p *AMQPProducer) resetLocked() {
	if p.sess != nil {
		_ = p.sess.close()
	}
	p.sess = nil
	p.declared = map[string]bool{}
}

func (p *AMQPProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil
	}
	err := p.sess.close()
	p.sess = nil
	return err
}

type amqpSession struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func dialAMQP(url string) (session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}

	return &amqpSession{conn: conn, ch: ch}, nil
}

func (s *amqpSession) declare(queue string) error {
	_, err := s.ch.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

func (s *amqpSession) publish(ctx context.Context, queue string, msg amqp.Publishing) (confirmation, error) {
	dc, err := s.ch.PublishWithDeferredConfirmWithContext(ctx, "", queue, false, false, msg)
	if err != nil {
		return nil, err
	}
	return dc, nil
}

func (s *amqpSession) closed() bool {
	return s.conn.IsClosed() || s.ch.IsClosed()
}

func (s *amqpSession) close() error {
	if !s.ch.IsClosed() {
		_ = s.ch.Close()
	}
	if s.conn.IsClosed() {
		return nil
	}
	return s.conn.Close()
}
