package tlsconn

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunnywhy/kv/fixtures/gencert"
)

func TestTLSHandshakeRoundTrip(t *testing.T) {
	ca, err := gencert.NewCA()
	require.NoError(t, err)

	serverCert, serverKey, err := ca.Issue("kvserver.acme.inc", []string{"kvserver.acme.inc"})
	require.NoError(t, err)

	acceptor, err := NewServerAcceptor(serverCert, serverKey, nil)
	require.NoError(t, err)

	connector, err := NewClientConnector("kvserver.acme.inc", nil, ca.CAPEM())
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	done := make(chan error, 1)
	go func() {
		_, err := acceptor.Accept(context.Background(), serverConn)
		done <- err
	}()

	tlsClient, err := connector.Connect(context.Background(), clientConn)
	require.NoError(t, err)
	require.NoError(t, <-done)
	_ = tlsClient
}

func TestTLSBadDomainFails(t *testing.T) {
	ca, err := gencert.NewCA()
	require.NoError(t, err)

	serverCert, serverKey, err := ca.Issue("kvserver.acme.inc", []string{"kvserver.acme.inc"})
	require.NoError(t, err)

	acceptor, err := NewServerAcceptor(serverCert, serverKey, nil)
	require.NoError(t, err)

	connector, err := NewClientConnector("wrong.acme.inc", nil, ca.CAPEM())
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	go acceptor.Accept(context.Background(), serverConn)

	_, err = connector.Connect(context.Background(), clientConn)
	require.Error(t, err)
}

func TestMutualTLS(t *testing.T) {
	ca, err := gencert.NewCA()
	require.NoError(t, err)

	serverCert, serverKey, err := ca.Issue("kvserver.acme.inc", []string{"kvserver.acme.inc"})
	require.NoError(t, err)
	clientCert, clientKey, err := ca.Issue("client1", nil)
	require.NoError(t, err)

	acceptor, err := NewServerAcceptor(serverCert, serverKey, ca.CAPEM())
	require.NoError(t, err)

	identity, err := LoadClientIdentity(clientCert, clientKey)
	require.NoError(t, err)

	connector, err := NewClientConnector("kvserver.acme.inc", identity, ca.CAPEM())
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	done := make(chan error, 1)
	go func() {
		conn, err := acceptor.Accept(context.Background(), serverConn)
		if err == nil {
			io.Copy(io.Discard, conn)
		}
		done <- err
	}()

	_, err = connector.Connect(context.Background(), clientConn)
	require.NoError(t, err)
	clientConn.Close()
	<-done
}

func TestInvalidDNSNameRejected(t *testing.T) {
	_, err := NewClientConnector("", nil, nil)
	require.Error(t, err)
}
