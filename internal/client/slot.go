package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/omochice/wstest/internal/chat"
)

// Slot holds the sender of the current connection, if any.
//
// Send and Install share one mutex, so a send never runs on a sender that
// is being replaced. When two connects finish close together, whichever
// installs last wins the slot.
type Slot struct {
	mu     sync.Mutex
	sender chat.Sender
	connID string
	logger *slog.Logger
}

// NewSlot creates an empty Slot. A nil logger discards.
func NewSlot(logger *slog.Logger) *Slot {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Slot{logger: logger}
}

// Install swaps in sender and returns the previous occupant.
// The caller owns the returned sender.
func (s *Slot) Install(sender chat.Sender) chat.Sender {
	previous, _ := s.swap(sender, "")
	return previous
}

// Replace installs sender, tagged with connID for logging, and closes the
// previous occupant. Close errors are logged and otherwise ignored.
func (s *Slot) Replace(sender chat.Sender, connID string) {
	previous, previousID := s.swap(sender, connID)
	if previous == nil {
		return
	}
	logger := s.logger.With("conn_id", previousID)
	if err := previous.Close(); err != nil {
		logger.Debug("failed to close previous connection", "error", err)
		return
	}
	logger.Debug("closed previous connection")
}

// Clear empties the slot, closing the current sender.
func (s *Slot) Clear() {
	s.Replace(nil, "")
}

func (s *Slot) swap(sender chat.Sender, connID string) (chat.Sender, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous, previousID := s.sender, s.connID
	s.sender, s.connID = sender, connID
	return previous, previousID
}

// Current returns the installed sender or nil.
func (s *Slot) Current() chat.Sender {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sender
}

// Connected reports whether a sender is installed.
func (s *Slot) Connected() bool {
	return s.Current() != nil
}

// Send writes text on the installed sender. The slot stays locked until
// the write returns.
func (s *Slot) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sender == nil {
		return chat.ErrNotConnected
	}
	if err := s.sender.Send(ctx, text); err != nil {
		return fmt.Errorf("%w: %w", chat.ErrSend, err)
	}
	return nil
}
