package ws

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gobwas/ws"
	"github.com/omochice/wstest/internal/chat"
)

// Dialer opens client WebSocket connections.
type Dialer struct {
	// Timeout bounds the TCP connect and the handshake. Zero means no limit
	// beyond the context passed to Dial.
	Timeout time.Duration

	// CloseTimeout is passed to every Conn; see DefaultCloseTimeout.
	CloseTimeout time.Duration
}

// ParseEndpoint validates a ws:// or wss:// endpoint.
func ParseEndpoint(endpoint string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chat.ErrInvalidEndpoint, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("%w: %q: scheme must be ws or wss", chat.ErrInvalidEndpoint, endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q: missing host", chat.ErrInvalidEndpoint, endpoint)
	}
	return u, nil
}

// Dial parses endpoint, performs the handshake and returns the split
// connection.
func (d Dialer) Dial(ctx context.Context, endpoint string) (chat.Sender, chat.Receiver, error) {
	u, err := ParseEndpoint(endpoint)
	if err != nil {
		return nil, nil, err
	}

	dialer := ws.Dialer{Timeout: d.Timeout}
	conn, br, _, err := dialer.Dial(ctx, u.String())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to connect to %s: %w", chat.ErrConnect, u.Redacted(), err)
	}

	sender, receiver := NewConn(conn, br, d.CloseTimeout).Split()
	return sender, receiver, nil
}

var _ chat.Dialer = Dialer{}
