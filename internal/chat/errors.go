package chat

import "errors"

var (
	// ErrInvalidEndpoint is returned when an endpoint is not a ws:// or wss:// URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrConnect is returned when the WebSocket handshake fails.
	ErrConnect = errors.New("connect failed")

	// ErrNotConnected is returned when sending without an installed connection.
	ErrNotConnected = errors.New("not connected to server")

	// ErrSend is returned when the transport rejects a send.
	ErrSend = errors.New("send failed")

	// ErrQueueClosed is returned when pushing into a closed inbound queue.
	ErrQueueClosed = errors.New("queue closed")
)
