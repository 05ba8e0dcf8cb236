// Package tcpserver serves the line-delimited JSON protocol over TCP:
// one request and one response per connection, one goroutine per
// accepted connection.
package tcpserver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/ticketline/ticketline/internal/protocol"
)

// maxRequestBytes caps a single request line. Requests are small JSON
// objects; anything larger is a misbehaving client.
const maxRequestBytes = 1 << 20 // 1 MiB

// Server owns the listener and the per-connection handlers.
type Server struct {
	addr         string
	dispatcher   *Dispatcher
	logger       *log.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// New constructs a server for the given listen address.
func New(addr string, dispatcher *Dispatcher, readTimeout, writeTimeout time.Duration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:         addr,
		dispatcher:   dispatcher,
		logger:       logger,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Listen binds the listen address without accepting yet, so callers can
// learn the bound address before Serve.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	s.logger.Printf("tcpserver: listening on %s", ln.Addr())
	return nil
}

// Addr reports the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until ctx is cancelled, handing each one to
// its own goroutine so a slow client never blocks the accept loop. It
// returns after in-flight handlers finish.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("tcpserver: Serve called before Listen")
	}

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	// Cancellation stops the accept loop only. A request accepted
	// before shutdown must still run to completion, so handlers get a
	// context that survives it; the read/write deadlines bound them.
	handlerCtx := context.WithoutCancel(ctx)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.logger.Printf("tcpserver: accept: %v", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(handlerCtx, conn)
		}()
	}

	s.wg.Wait()
	s.logger.Println("tcpserver: drained, shutting down")
	return ctx.Err()
}

// Start binds and serves; the usual entry point for production wiring.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// handleConn runs one request/response exchange. The connection is
// closed on every exit path; a panic in dispatch must not take down the
// listener or its sibling handlers.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("tcpserver: handler panic from %s: %v", conn.RemoteAddr(), r)
		}
	}()

	if s.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}

	line, err := readRequestLine(conn)
	var response []byte
	switch {
	case err != nil:
		s.logger.Printf("tcpserver: read from %s: %v", conn.RemoteAddr(), err)
		response = encode(protocol.Error(msgInvalidRequest))
	case len(line) == 0:
		response = encode(protocol.Error(msgInvalidRequest))
	default:
		response = s.dispatcher.Dispatch(ctx, line)
	}

	if s.writeTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if _, err := conn.Write(response); err != nil {
		s.logger.Printf("tcpserver: write to %s: %v", conn.RemoteAddr(), err)
	}
}

// readRequestLine reads bytes until the newline delimiter. When the
// client closes the stream before sending one, any buffered bytes are
// returned for a best-effort parse. Bytes after the first newline are
// ignored: the contract is one request per connection.
func readRequestLine(conn net.Conn) ([]byte, error) {
	reader := bufio.NewReader(io.LimitReader(conn, maxRequestBytes))
	line, err := reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return bytes.TrimSpace(line), nil
}
