// Package client dials a server, negotiates TLS and the yamux session,
// and opens one logical stream per outstanding request or subscription
// (spec §4).
package client

import (
	"context"
	"crypto/tls"
	"net"

	"github.com/sunnywhy/kv/internal/kverrors"
	"github.com/sunnywhy/kv/internal/mux"
	"github.com/sunnywhy/kv/internal/msgstream"
	"github.com/sunnywhy/kv/internal/tlsconn"
	"github.com/sunnywhy/kv/internal/wire"
)

// Client holds one secured, multiplexed connection to a server. Every
// call below opens its own logical stream, so concurrent calls never
// block one another.
type Client struct {
	sess *mux.Session
}

// Option configures dial-time behavior.
type Option func(*dialConfig)

type dialConfig struct {
	identity *tls.Certificate
	serverCA []byte
}

// WithClientIdentity presents identity during the handshake, for
// servers requiring mutual TLS.
func WithClientIdentity(identity *tls.Certificate) Option {
	return func(c *dialConfig) { c.identity = identity }
}

// WithServerCA adds serverCA to the trust root used to validate the
// server certificate, in addition to the OS trust store.
func WithServerCA(serverCA []byte) Option {
	return func(c *dialConfig) { c.serverCA = serverCA }
}

// Dial connects to addr, validating the server's certificate against
// domain, and establishes the yamux session every subsequent call rides
// on.
func Dial(ctx context.Context, addr, domain string, opts ...Option) (*Client, error) {
	cfg := &dialConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &kverrors.IoError{Op: "dial", Err: err}
	}

	connector, err := tlsconn.NewClientConnector(domain, cfg.identity, cfg.serverCA)
	if err != nil {
		raw.Close()
		return nil, err
	}

	tlsConn, err := connector.Connect(ctx, raw)
	if err != nil {
		raw.Close()
		return nil, err
	}

	sess, err := mux.NewClientSession(tlsConn)
	if err != nil {
		tlsConn.Close()
		return nil, err
	}

	return &Client{sess: sess}, nil
}

// Close tears down the session and every logical stream riding on it.
func (c *Client) Close() error { return c.sess.Close() }

// Call opens a fresh logical stream, sends req, and returns its single
// response. It must not be used for Subscribe — use Subscribe instead,
// since a subscription's result stream never ends on its own.
func (c *Client) Call(req wire.CommandRequest) (wire.CommandResponse, error) {
	conn, err := c.sess.OpenStream()
	if err != nil {
		return wire.CommandResponse{}, err
	}
	defer conn.Close()

	stream := msgstream.NewClientStream(conn)
	if err := stream.Write(req); err != nil {
		return wire.CommandResponse{}, err
	}
	return stream.Read()
}
