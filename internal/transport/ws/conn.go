// Package ws provides the WebSocket client transport built on gobwas/ws.
package ws

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/omochice/wstest/internal/chat"
)

// DefaultCloseTimeout bounds how long a closed connection waits for the
// peer to answer the close frame.
const DefaultCloseTimeout = 5 * time.Second

var errClosing = errors.New("connection is closing")

// Conn is a client-side WebSocket connection that is split into a Sender
// and a Receiver. Writes from both halves (data frames and control
// replies) are serialized by a single mutex.
type Conn struct {
	conn         net.Conn
	src          io.Reader
	closeTimeout time.Duration

	wmu     sync.Mutex
	closing bool

	split     atomic.Bool
	closeOnce sync.Once
}

// NewConn wraps an established client connection. br is the buffered
// reader returned by the handshake and may be nil.
func NewConn(conn net.Conn, br *bufio.Reader, closeTimeout time.Duration) *Conn {
	src := io.Reader(conn)
	if br != nil {
		src = br
	}
	if closeTimeout <= 0 {
		closeTimeout = DefaultCloseTimeout
	}
	return &Conn{conn: conn, src: src, closeTimeout: closeTimeout}
}

// Split returns the two halves of the connection. It panics if called
// more than once.
func (c *Conn) Split() (*Sender, *Receiver) {
	if !c.split.CompareAndSwap(false, true) {
		panic("ws: connection split twice")
	}
	r := &Receiver{c: c}
	r.rd = wsutil.Reader{
		Source:         c.src,
		State:          ws.StateClientSide,
		OnIntermediate: c.handleControl,
	}
	return &Sender{c: c}, r
}

// RemoteAddr returns the remote address for logging.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *Conn) writeFrame(op ws.OpCode, p []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.closing {
		return errClosing
	}
	return wsutil.WriteClientMessage(c.conn, op, p)
}

// handleControl answers pings and close frames read by the Receiver.
func (c *Conn) handleControl(h ws.Header, r io.Reader) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	switch h.OpCode {
	case ws.OpPing:
		if err := c.writeFrame(ws.OpPong, payload); err != nil && !errors.Is(err, errClosing) {
			return err
		}
	case ws.OpClose:
		code, reason := ws.ParseCloseFrameData(payload)
		c.sendClose(ws.StatusNormalClosure)
		return wsutil.ClosedError{Code: code, Reason: reason}
	}
	return nil
}

// sendClose writes a close frame once. Later writes fail with errClosing.
func (c *Conn) sendClose(code ws.StatusCode) (sent bool, err error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.closing {
		return false, nil
	}
	c.closing = true
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.closeTimeout))
	return true, wsutil.WriteClientMessage(c.conn, ws.OpClose, ws.NewCloseFrameBody(code, ""))
}

func (c *Conn) close() error {
	err := net.ErrClosed
	c.closeOnce.Do(func() { err = c.conn.Close() })
	return err
}

// deadlineOnCancel forces a pending read or write to return when ctx is
// cancelled. The returned func releases the hook and, if the hook already
// fired, waits for it to finish.
func deadlineOnCancel(ctx context.Context, set func(time.Time) error) func() {
	if ctx.Done() == nil {
		return func() {}
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		_ = set(time.Unix(1, 0))
	})
	return func() {
		if !stop() {
			<-fired
		}
	}
}

// Sender is the write half of a Conn.
type Sender struct {
	c *Conn
}

// Send writes a single text frame.
func (s *Sender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.c.wmu.Lock()
	defer s.c.wmu.Unlock()
	if s.c.closing {
		return errClosing
	}

	deadline, _ := ctx.Deadline()
	if err := s.c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	stop := deadlineOnCancel(ctx, s.c.conn.SetWriteDeadline)
	err := wsutil.WriteClientText(s.c.conn, []byte(text))
	stop()
	// Control replies share the socket and must not inherit this deadline.
	if resetErr := s.c.conn.SetWriteDeadline(time.Time{}); err == nil {
		err = resetErr
	}
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Close sends a close frame and arms a read deadline so the matching
// Receiver ends once the peer replies or the close timeout passes. The
// socket itself is released by Receiver.Close.
func (s *Sender) Close() error {
	sent, err := s.c.sendClose(ws.StatusNormalClosure)
	if !sent {
		return nil
	}
	_ = s.c.conn.SetReadDeadline(time.Now().Add(s.c.closeTimeout))
	if err != nil {
		return fmt.Errorf("failed to send close frame: %w", err)
	}
	return nil
}

// Receiver is the read half of a Conn.
type Receiver struct {
	c  *Conn
	rd wsutil.Reader
}

// Receive returns the next text or binary frame. Control frames are
// handled internally; a close frame from the peer ends the stream with
// a wsutil.ClosedError.
func (r *Receiver) Receive(ctx context.Context) (chat.Frame, error) {
	stop := deadlineOnCancel(ctx, r.c.conn.SetReadDeadline)
	defer stop()

	for {
		hdr, err := r.rd.NextFrame()
		if err != nil {
			return chat.Frame{}, r.readErr(ctx, err)
		}
		if hdr.OpCode.IsControl() {
			if err := r.c.handleControl(hdr, &r.rd); err != nil {
				return chat.Frame{}, r.readErr(ctx, err)
			}
			continue
		}
		if hdr.OpCode&(ws.OpText|ws.OpBinary) == 0 {
			if err := r.rd.Discard(); err != nil {
				return chat.Frame{}, r.readErr(ctx, err)
			}
			continue
		}

		data, err := io.ReadAll(&r.rd)
		if err != nil {
			return chat.Frame{}, r.readErr(ctx, err)
		}
		return chat.Frame{Text: hdr.OpCode == ws.OpText, Data: data}, nil
	}
}

func (r *Receiver) readErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close releases the underlying socket.
func (r *Receiver) Close() error {
	return r.c.close()
}

var (
	_ chat.Sender   = (*Sender)(nil)
	_ chat.Receiver = (*Receiver)(nil)
)
