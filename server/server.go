// Package server hosts the listener loop: accept a TCP connection,
// upgrade it to TLS, multiplex it with yamux, and run a dispatch loop
// over every logical stream against a shared Service (spec §4).
package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/sunnywhy/kv/internal/kverrors"
	"github.com/sunnywhy/kv/internal/mux"
	"github.com/sunnywhy/kv/internal/msgstream"
	"github.com/sunnywhy/kv/internal/service"
	"github.com/sunnywhy/kv/internal/tlsconn"
	"github.com/sunnywhy/kv/internal/wire"
)

// Server accepts connections on one listener and dispatches every
// logical stream against svc. It holds no per-connection state itself;
// all shared mutable state lives in the Service.
type Server struct {
	listener net.Listener
	acceptor *tlsconn.ServerAcceptor
	svc      *service.Service
	log      *logrus.Logger
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithService overrides the default empty Service, e.g. to share
// storage/hooks across test servers.
func WithService(svc *service.Service) Option {
	return func(s *Server) { s.svc = svc }
}

// WithLogger overrides the default standard logrus logger.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New binds addr and prepares a Server identified by certPEM/keyPEM.
// When clientCA is non-empty, every client connection must present a
// certificate signed by it (mutual TLS).
func New(addr string, certPEM, keyPEM, clientCA []byte, opts ...Option) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &kverrors.IoError{Op: "listen", Err: err}
	}

	acceptor, err := tlsconn.NewServerAcceptor(certPEM, keyPEM, clientCA)
	if err != nil {
		ln.Close()
		return nil, err
	}

	s := &Server{
		listener: ln,
		acceptor: acceptor,
		svc:      service.New(),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Addr reports the address the listener bound, useful when addr was
// passed as "host:0".
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Serve accepts connections until ctx is cancelled or the listener
// fails. Each accepted connection runs in its own goroutine and never
// blocks another connection's progress.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return &kverrors.IoError{Op: "accept", Err: err}
		}
		go s.handleConn(ctx, conn)
	}
}

// Close shuts down the listener, ending Serve.
func (s *Server) Close() error { return s.listener.Close() }

func (s *Server) handleConn(ctx context.Context, raw net.Conn) {
	defer raw.Close()

	tlsConn, err := s.acceptor.Accept(ctx, raw)
	if err != nil {
		s.log.WithError(err).Warn("tls handshake failed")
		return
	}

	sess, err := mux.NewServerSession(tlsConn)
	if err != nil {
		s.log.WithError(err).Warn("failed to establish mux session")
		return
	}
	defer sess.Close()

	if err := sess.Serve(s.handleStream); err != nil {
		s.log.WithError(err).Debug("mux session ended")
	}
}

func (s *Server) handleStream(conn net.Conn) {
	defer conn.Close()
	stream := msgstream.NewServerStream(conn)

	for {
		req, err := stream.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.WithError(err).Debug("stream read failed")
			}
			return
		}

		result := s.svc.Execute(req)

		if req.Kind == wire.ReqSubscribe {
			s.serveSubscription(stream, result)
			return
		}

		for resp := range result.Responses {
			if err := stream.Write(resp); err != nil {
				s.log.WithError(err).Debug("stream write failed")
				result.Cleanup()
				return
			}
			s.svc.NotifyAfterSend()
		}
	}
}

// serveSubscription relays published responses to stream until either
// the broadcaster closes result.Responses (an explicit Unsubscribe
// elsewhere, or broadcaster teardown) or the peer ends this logical
// stream. A subscribed stream never receives further requests from the
// client, so the only way to observe peer half-close/error here is a
// background read; spec §5 requires that ending to terminate this
// stream's task (and, via Cleanup, the subscription) promptly rather
// than only on the next failed write.
func (s *Server) serveSubscription(stream *msgstream.ServerStream, result service.Result) {
	defer result.Cleanup()

	peerDone := make(chan struct{})
	go func() {
		defer close(peerDone)
		stream.Read()
	}()

	for {
		select {
		case resp, ok := <-result.Responses:
			if !ok {
				return
			}
			if err := stream.Write(resp); err != nil {
				s.log.WithError(err).Debug("stream write failed")
				return
			}
			s.svc.NotifyAfterSend()
		case <-peerDone:
			s.log.Debug("subscriber stream ended by peer")
			return
		}
	}
}
