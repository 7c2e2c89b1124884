// Package tlsconn wraps a raw byte stream with TLS per spec §4.2 and
// §6.3: the server optionally requires mTLS against a client-CA bundle,
// the client validates the server against its expected DNS name, and
// both sides advertise the "kv" ALPN identifier.
package tlsconn

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"strings"

	"github.com/sunnywhy/kv/internal/kverrors"
)

// ALPN is the application-layer protocol identifier this service
// negotiates (spec §6.3).
const ALPN = "kv"

// ServerAcceptor wraps accepted TCP connections in TLS, optionally
// requiring and verifying client certificates (mTLS).
type ServerAcceptor struct {
	config *tls.Config
}

// NewServerAcceptor builds a ServerAcceptor from a PEM server
// certificate chain and private key. tls.X509KeyPair already tries
// PKCS8 first and falls back to PKCS1/EC, satisfying spec §4.2's
// "PKCS8 first, RSA fallback" requirement without extra parsing code.
// If clientCA is non-empty, the acceptor requires and verifies client
// certificates against it.
func NewServerAcceptor(certPEM, keyPEM, clientCA []byte) (*ServerAcceptor, error) {
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, &kverrors.CertificateParseError{Role: "server", Kind: "cert", Err: err}
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPN},
		MinVersion:   tls.VersionTLS12,
	}

	if len(clientCA) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(clientCA) {
			return nil, &kverrors.CertificateParseError{Role: "ca", Kind: "cert"}
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return &ServerAcceptor{config: cfg}, nil
}

// Accept performs the server-side TLS handshake over raw and returns
// the secured connection.
func (a *ServerAcceptor) Accept(ctx context.Context, raw net.Conn) (net.Conn, error) {
	conn := tls.Server(raw, a.config)
	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, &kverrors.TlsError{Op: "server handshake", Err: err}
	}
	return conn, nil
}

// ClientConnector wraps a dialed TCP connection in TLS, validating the
// server certificate against the expected DNS name and an optional
// extra CA bundle, and optionally presenting a client identity for
// mTLS.
type ClientConnector struct {
	config *tls.Config
	domain string
}

// NewClientConnector builds a ClientConnector. The root store is
// seeded from the OS native roots plus any serverCA PEM provided.
// identity, if non-nil, is presented as the client certificate.
func NewClientConnector(domain string, identity *tls.Certificate, serverCA []byte) (*ClientConnector, error) {
	if !validDNSName(domain) {
		return nil, &kverrors.Internal{Text: "Invalid DNS name"}
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if len(serverCA) > 0 {
		if !pool.AppendCertsFromPEM(serverCA) {
			return nil, &kverrors.CertificateParseError{Role: "ca", Kind: "cert"}
		}
	}

	cfg := &tls.Config{
		RootCAs:    pool,
		ServerName: domain,
		NextProtos: []string{ALPN},
		MinVersion: tls.VersionTLS12,
	}
	if identity != nil {
		cfg.Certificates = []tls.Certificate{*identity}
	}

	return &ClientConnector{config: cfg, domain: domain}, nil
}

// Connect performs the client-side TLS handshake over raw and returns
// the secured connection.
func (c *ClientConnector) Connect(ctx context.Context, raw net.Conn) (net.Conn, error) {
	conn := tls.Client(raw, c.config)
	if err := conn.HandshakeContext(ctx); err != nil {
		return nil, &kverrors.TlsError{Op: "client handshake", Err: err}
	}
	return conn, nil
}

// LoadClientIdentity parses a PEM client certificate/key pair for use
// as ClientConnector's optional mTLS identity.
func LoadClientIdentity(certPEM, keyPEM []byte) (*tls.Certificate, error) {
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, &kverrors.CertificateParseError{Role: "client", Kind: "cert", Err: err}
	}
	return &cert, nil
}

// validDNSName performs the minimal syntax check spec §4.2 calls for
// before attempting a handshake: non-empty, at most 253 bytes, no
// whitespace, and no embedded NUL. Label syntax is not checked.
func validDNSName(name string) bool {
	if name == "" || len(name) > 253 {
		return false
	}
	if strings.ContainsAny(name, " \t\n\r\x00") {
		return false
	}
	return true
}
