package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/omochice/wstest/internal/chat"
)

// Controller opens connections, publishes their senders into a Slot and
// starts one Relay per connection.
//
// Relays of replaced connections are not cancelled. Closing the old
// sender asks the peer to close, and the relay ends with its stream.
type Controller struct {
	dialer chat.Dialer
	slot   *Slot
	queue  *Queue
	logger *slog.Logger
	relays sync.WaitGroup
}

// NewController creates a Controller. A nil logger discards.
func NewController(dialer chat.Dialer, slot *Slot, queue *Queue, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		dialer: dialer,
		slot:   slot,
		queue:  queue,
		logger: logger,
	}
}

// Connect dials endpoint and, on success, installs the new sender and
// starts its relay. It blocks for the handshake; callers run it off the
// UI loop.
//
// An empty endpoint is a no-op. An unparsable endpoint leaves the slot as
// it was; a failed handshake clears it.
func (c *Controller) Connect(ctx context.Context, endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		c.logger.Debug("no endpoint, skipping connect")
		return nil
	}

	logger := c.logger.With("endpoint", endpoint)

	sender, receiver, err := c.dialer.Dial(ctx, endpoint)
	if err != nil {
		if errors.Is(err, chat.ErrInvalidEndpoint) {
			logger.Warn("invalid endpoint", "error", err)
			return err
		}
		logger.Warn("connect failed", "error", err)
		c.slot.Clear()
		if !errors.Is(err, chat.ErrConnect) {
			err = fmt.Errorf("%w: %w", chat.ErrConnect, err)
		}
		return err
	}

	connID := uuid.NewString()
	logger = logger.With("conn_id", connID)
	c.slot.Replace(sender, connID)
	logger.Info("connected")

	relay := NewRelay(receiver, c.queue, logger)
	c.relays.Add(1)
	go func() {
		defer c.relays.Done()
		relay.Run(context.Background())
		logger.Info("connection closed")
	}()

	return nil
}

// Wait blocks until every relay started by Connect has returned.
func (c *Controller) Wait() {
	c.relays.Wait()
}
