// Package client implements the connection lifecycle of the interactive
// client: the connection slot, inbound relays, the connect controller and
// the Session that ties them to the message log.
package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/omochice/wstest/internal/chat"
)

const (
	DefaultQueueSize   = 64
	DefaultSendTimeout = 5 * time.Second
)

// Options configures a Session.
type Options struct {
	// QueueSize is the inbound queue buffer. Zero uses DefaultQueueSize.
	QueueSize int

	// SendTimeout bounds a single send. Zero uses DefaultSendTimeout.
	SendTimeout time.Duration
}

// Session owns the message log and the current connection.
type Session struct {
	log         *chat.Log
	slot        *Slot
	queue       *Queue
	controller  *Controller
	logger      *slog.Logger
	sendTimeout time.Duration

	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewSession creates a Session that dials with dialer. Call Start before
// connecting. A nil logger discards.
func NewSession(dialer chat.Dialer, opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}

	slot := NewSlot(logger)
	queue := NewQueue(opts.QueueSize)
	return &Session{
		log:         chat.NewLog(),
		slot:        slot,
		queue:       queue,
		controller:  NewController(dialer, slot, queue, logger),
		logger:      logger,
		sendTimeout: opts.SendTimeout,
	}
}

// Start runs the forwarder that appends inbound text to the log.
func (s *Session) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.forward()
	})
}

func (s *Session) forward() {
	defer s.wg.Done()
	for {
		select {
		case text := <-s.queue.Items():
			s.log.Append(chat.Entry{Author: chat.AuthorPeer, Content: text})
		case <-s.queue.Done():
			return
		}
	}
}

// Connect replaces the current connection with one to endpoint. See
// Controller.Connect.
func (s *Session) Connect(ctx context.Context, endpoint string) error {
	return s.controller.Connect(ctx, endpoint)
}

// Send writes text on the current connection and appends it to the log
// as an operator entry once the transport accepts it.
func (s *Session) Send(ctx context.Context, text string) error {
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.slot.Send(ctx, text); err != nil {
		s.logger.Debug("send failed", "error", err)
		return err
	}
	s.log.Append(chat.Entry{Author: chat.AuthorOperator, Content: text})
	return nil
}

// Log returns the shared message log.
func (s *Session) Log() *chat.Log {
	return s.log
}

// Connected reports whether a connection is installed.
func (s *Session) Connected() bool {
	return s.slot.Connected()
}

// Close drops the current connection and stops the forwarder. Relays
// still draining end with their streams; Close does not wait for them.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.slot.Clear()
		s.queue.Close()
		s.wg.Wait()
	})
}

// Wait blocks until every relay has returned.
func (s *Session) Wait() {
	s.controller.Wait()
}
