package client

import (
	"context"
	"sync"

	"github.com/omochice/wstest/internal/chat"
)

// Queue carries inbound text from relays to the log forwarder.
type Queue struct {
	items chan string
	done  chan struct{}
	once  sync.Once
}

// NewQueue creates a Queue buffering up to size items.
func NewQueue(size int) *Queue {
	if size < 0 {
		size = 0
	}
	return &Queue{
		items: make(chan string, size),
		done:  make(chan struct{}),
	}
}

// Push enqueues text, blocking while the buffer is full. It returns
// chat.ErrQueueClosed once the queue is closed.
func (q *Queue) Push(ctx context.Context, text string) error {
	select {
	case <-q.done:
		return chat.ErrQueueClosed
	default:
	}

	select {
	case q.items <- text:
		return nil
	case <-q.done:
		return chat.ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Items returns the channel of queued text. It is never closed; select on
// Done to stop reading.
func (q *Queue) Items() <-chan string {
	return q.items
}

// Done is closed by Close.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Close stops accepting pushes. Safe to call more than once.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
}
