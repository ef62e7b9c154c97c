// Package server provides a WebSocket echo server used to exercise the
// client by hand and in tests.
package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// DefaultGreeting is the text frame sent to every new connection.
const DefaultGreeting = "Hello!"

// Options configures an echo Server.
type Options struct {
	// Greeting is sent once after the handshake. Empty disables it.
	Greeting string

	Logger *slog.Logger
}

// Server accepts WebSocket connections on "/" and echoes every data frame
// back to its sender.
type Server struct {
	address  string
	greeting string
	logger   *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	conns    map[net.Conn]struct{}
	stopped  bool
	wg       sync.WaitGroup
}

// New creates an echo server listening on address once started.
func New(address string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		address:  address,
		greeting: opts.Greeting,
		logger:   logger,
		conns:    make(map[net.Conn]struct{}),
	}
}

// Listen binds the listening socket. Start calls it when needed.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWebSocket)
	s.server = &http.Server{Handler: mux}
	return nil
}

// Start accepts connections until Stop is called. It returns nil after
// a clean stop.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	listener, server := s.listener, s.server
	s.mu.Unlock()

	s.logger.Info("echo server started", "addr", listener.Addr().String())

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop closes the listener and every open connection, then waits for the
// connection handlers to return.
func (s *Server) Stop() {
	s.mu.Lock()
	s.stopped = true
	server, listener := s.server, s.listener
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	if server != nil {
		server.Close()
		listener.Close()
	}

	s.wg.Wait()
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// URL returns the ws:// URL of the server.
func (s *Server) URL() string {
	return "ws://" + s.Addr() + "/"
}

// ConnCount returns the number of open connections.
func (s *Server) ConnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		s.logger.Warn("failed to accept websocket connection", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	go s.handleConn(conn)
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	logger := s.logger.With("remote", conn.RemoteAddr().String())
	logger.Info("client connected")

	if s.greeting != "" {
		if err := wsutil.WriteServerText(conn, []byte(s.greeting)); err != nil {
			logger.Warn("failed to send greeting", "error", err)
			return
		}
	}

	for {
		data, op, err := wsutil.ReadClientData(conn)
		if err != nil {
			var closed wsutil.ClosedError
			if errors.As(err, &closed) || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				logger.Info("client disconnected")
			} else {
				logger.Warn("failed to read frame", "error", err)
			}
			return
		}

		logger.Debug("echo", "op", op, "bytes", len(data))
		if err := wsutil.WriteServerMessage(conn, op, data); err != nil {
			logger.Warn("failed to echo frame", "error", err)
			return
		}
	}
}
