// Package chat provides the core chat domain types shared by the client,
// the transports and the terminal UI.
package chat

import "context"

// Frame is a single data frame read from a connection.
type Frame struct {
	// Text is true for text frames and false for binary frames.
	Text bool
	Data []byte
}

// Sender is the write half of a split connection.
// Implementations must be safe to Close while a Receive is in progress
// on the matching Receiver.
type Sender interface {
	// Send writes a single text frame.
	Send(ctx context.Context, text string) error

	// Close starts a graceful close of the connection.
	Close() error
}

// Receiver is the read half of a split connection.
type Receiver interface {
	// Receive blocks until the next data frame arrives.
	// Returns io.EOF (or a wrapped close error) when the stream ends.
	Receive(ctx context.Context) (Frame, error)

	// Close releases the underlying connection.
	Close() error
}

// Dialer opens connections to an endpoint.
// Returned errors wrap ErrInvalidEndpoint when the endpoint cannot be
// parsed, and ErrConnect when the handshake fails.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Sender, Receiver, error)
}
