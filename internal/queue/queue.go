// Package queue publishes work items to a durable queue for out-of-process
// workers.
package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Producer publishes a payload to a named queue and returns once the broker
// has accepted it.
type Producer interface {
	Publish(ctx context.Context, queue string, payload []byte) error
	Close() error
}

// RedisProducer appends payloads to a Redis stream named after the queue.
type RedisProducer struct {
	rdb redis.UniversalClient
}

func NewRedisProducer(rdb redis.UniversalClient) *RedisProducer {
	return &RedisProducer{rdb: rdb}
}

func (p *RedisProducer) Publish(ctx context.Context, queue string, payload []byte) error {
	err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: queue,
		Values: map[string]any{"payload": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", queue, err)
	}
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (p *RedisProducer) Close() error { return nil }
