package client

import (
	"context"
	"log/slog"

	"github.com/omochice/wstest/internal/chat"
)

// Relay drains one receiver into the inbound queue.
type Relay struct {
	receiver chat.Receiver
	queue    *Queue
	logger   *slog.Logger
}

// NewRelay creates a relay for receiver. A nil logger discards.
func NewRelay(receiver chat.Receiver, queue *Queue, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Relay{receiver: receiver, queue: queue, logger: logger}
}

// Run forwards text frames until the stream ends, the receive fails or
// the queue is closed, and returns the error that stopped it. Binary
// frames are dropped. The receiver is closed before Run returns.
//
// Run never reconnects.
func (r *Relay) Run(ctx context.Context) error {
	defer r.receiver.Close()

	for {
		frame, err := r.receiver.Receive(ctx)
		if err != nil {
			r.logger.Debug("relay stopped", "error", err)
			return err
		}
		if !frame.Text {
			r.logger.Debug("dropped binary frame", "bytes", len(frame.Data))
			continue
		}
		if err := r.queue.Push(ctx, string(frame.Data)); err != nil {
			r.logger.Debug("relay stopped", "error", err)
			return err
		}
	}
}
