package client_test

import (
	"context"
	"io"
	"sync"

	"github.com/omochice/wstest/internal/chat"
)

// mockSender records sent text.
type mockSender struct {
	mu       sync.Mutex
	sent     []string
	sendErr  error
	closeErr error
	closed   bool
}

func (m *mockSender) Send(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, text)
	return nil
}

func (m *mockSender) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.closeErr
}

func (m *mockSender) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func (m *mockSender) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// mockReceiver yields frames from a channel and io.EOF once it is closed.
type mockReceiver struct {
	frames    chan chat.Frame
	closeOnce sync.Once
	closed    chan struct{}
}

func newMockReceiver() *mockReceiver {
	return &mockReceiver{
		frames: make(chan chat.Frame, 10),
		closed: make(chan struct{}),
	}
}

func (m *mockReceiver) Receive(ctx context.Context) (chat.Frame, error) {
	select {
	case <-ctx.Done():
		return chat.Frame{}, ctx.Err()
	case <-m.closed:
		return chat.Frame{}, io.EOF
	case frame, ok := <-m.frames:
		if !ok {
			return chat.Frame{}, io.EOF
		}
		return frame, nil
	}
}

func (m *mockReceiver) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}

func (m *mockReceiver) text(s string) {
	m.frames <- chat.Frame{Text: true, Data: []byte(s)}
}

// mockDialer returns the next prepared connection or error per call.
type mockDialer struct {
	mu    sync.Mutex
	calls []string
	dial  func(endpoint string) (chat.Sender, chat.Receiver, error)
}

func (m *mockDialer) Dial(ctx context.Context, endpoint string) (chat.Sender, chat.Receiver, error) {
	m.mu.Lock()
	m.calls = append(m.calls, endpoint)
	m.mu.Unlock()
	return m.dial(endpoint)
}

func (m *mockDialer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

var (
	_ chat.Sender   = (*mockSender)(nil)
	_ chat.Receiver = (*mockReceiver)(nil)
	_ chat.Dialer   = (*mockDialer)(nil)
)
