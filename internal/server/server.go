package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/skolklocka/internal/app"
	"github.com/shrimpsizemoose/skolklocka/internal/handlers"
	"github.com/shrimpsizemoose/skolklocka/internal/metrics"
	"github.com/shrimpsizemoose/skolklocka/internal/protocol"
)

// Server answers one request per connection: read, parse, dispatch, write, close.
type Server struct {
	parser     *protocol.Parser
	dispatcher *handlers.Dispatcher
	readBuffer int

	wg sync.WaitGroup
}

func New(parser *protocol.Parser, dispatcher *handlers.Dispatcher, readBuffer int) *Server {
	if readBuffer <= 0 {
		readBuffer = app.DefaultReadBuffer
	}
	return &Server{
		parser:     parser,
		dispatcher: dispatcher,
		readBuffer: readBuffer,
	}
}

// Listen binds the configured address. When the bind fails and
// fallback_to_loopback is set it retries on 127.0.0.1.
func Listen(config *app.Config) (net.Listener, error) {
	port := strconv.Itoa(config.Server.Port)
	addr := net.JoinHostPort(config.ListenIP().String(), port)

	ln, err := net.Listen("tcp", addr)
	if err == nil {
		return ln, nil
	}
	if !config.Server.FallbackToLoopback {
		return nil, fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	loopback := net.JoinHostPort("127.0.0.1", port)
	logger.Error.Printf("Failed to bind %s (%v), falling back to %s", addr, err, loopback)
	ln, err = net.Listen("tcp", loopback)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", loopback, err)
	}
	return ln, nil
}

func (s *Server) ListenAndServe(ctx context.Context, config *app.Config) error {
	ln, err := Listen(config)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections until ctx is cancelled, then waits for the
// in-flight ones to finish. It always closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.wg.Wait()
	defer ln.Close()

	logger.Info.Printf("Listening on %s", ln.Addr())

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stop:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				logger.Error.Printf("Accept failed: %v", err)
				continue
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	metrics.ActiveConnections.Inc()
	defer metrics.ActiveConnections.Dec()

	id := uuid.NewString()
	logger.Debug.Printf("[%s] connection from %s", id, conn.RemoteAddr())

	outcome := s.serveOne(ctx, id, conn)
	metrics.ConnectionsTotal.WithLabelValues(outcome).Inc()

	logger.Debug.Printf("[%s] closed: %s", id, outcome)
}

func (s *Server) serveOne(ctx context.Context, id string, conn net.Conn) string {
	buf := make([]byte, s.readBuffer)
	n, err := conn.Read(buf)
	if n == 0 {
		logger.Debug.Printf("[%s] %v: %v", id, protocol.ErrCannotRead, err)
		return metrics.OutcomeReadError
	}

	resp, ok, outcome := s.respond(ctx, id, buf[:n])
	if !ok {
		return outcome
	}

	if _, err := conn.Write([]byte(resp.String() + "\n")); err != nil {
		logger.Error.Printf("[%s] %v: %v", id, protocol.ErrWriteFailed, err)
		return metrics.OutcomeWriteError
	}
	return outcome
}

func (s *Server) respond(ctx context.Context, id string, frame []byte) (protocol.Response, bool, string) {
	req, err := s.parser.Parse(ctx, frame)
	if err != nil {
		logger.Debug.Printf("[%s] rejected: %v", id, err)
		resp, ok := protocol.ErrorResponse(err)
		if !ok {
			return resp, false, metrics.OutcomeIgnored
		}
		return resp, true, metrics.OutcomeRejected
	}

	logger.Debug.Printf("[%s] %s %d %v", id, req.Method, req.Number, req.Args)
	resp, ok := s.dispatcher.Dispatch(ctx, req)
	if !ok {
		return resp, false, metrics.OutcomeIgnored
	}
	return resp, true, metrics.OutcomeServed
}
