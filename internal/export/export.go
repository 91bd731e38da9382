// Package export hands playlist export requests to an out-of-process worker.
package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"openmusic-service/internal/queue"
)

// AccessVerifier is satisfied by *playlist.Service.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, playlistID, userID string) error
}

// Message is the payload workers consume.
type Message struct {
	PlaylistID  string `json:"playlistId"`
	TargetEmail string `json:"targetEmail"`
}

type Dispatcher struct {
	access   AccessVerifier
	producer queue.Producer
	queue    string
}

func NewDispatcher(access AccessVerifier, producer queue.Producer, queueName string) *Dispatcher {
	return &Dispatcher{access: access, producer: producer, queue: queueName}
}

// RequestExport checks read access and enqueues the export. It returns once
// the broker has accepted the message; the export itself runs elsewhere.
func (d *Dispatcher) RequestExport(ctx context.Context, playlistID, targetEmail, userID string) error {
	if err := d.access.VerifyAccess(ctx, playlistID, userID); err != nil {
		return err
	}

	payload, err := json.Marshal(Message{PlaylistID: playlistID, TargetEmail: targetEmail})
	if err != nil {
		return fmt.Errorf("encode export message: %w", err)
	}

	if err := d.producer.Publish(ctx, d.queue, payload); err != nil {
		return fmt.Errorf("publish export: %w", err)
	}

	log.Info("export: request queued", "playlist", playlistID, "queue", d.queue)
	return nil
}
