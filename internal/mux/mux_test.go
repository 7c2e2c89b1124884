package mux

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenStreamAndServe(t *testing.T) {
	clientConn, serverConn := net.Pipe()

	serverSess, err := NewServerSession(serverConn)
	require.NoError(t, err)
	clientSess, err := NewClientSession(clientConn)
	require.NoError(t, err)

	received := make(chan string, 1)
	go serverSess.Serve(func(s net.Conn) {
		buf := make([]byte, 5)
		io.ReadFull(s, buf)
		received <- string(buf)
		s.Close()
	})

	stream, err := clientSess.OpenStream()
	require.NoError(t, err)
	_, err = stream.Write([]byte("hello"))
	require.NoError(t, err)

	require.Equal(t, "hello", <-received)

	stream.Close()
	clientSess.Close()
	serverSess.Close()
}

func TestMultipleConcurrentStreams(t *testing.T) {
	clientConn, serverConn := net.Pipe()

	serverSess, err := NewServerSession(serverConn)
	require.NoError(t, err)
	clientSess, err := NewClientSession(clientConn)
	require.NoError(t, err)

	go serverSess.Serve(func(s net.Conn) {
		buf := make([]byte, 1)
		io.ReadFull(s, buf)
		s.Write(buf)
		s.Close()
	})

	for i := 0; i < 4; i++ {
		stream, err := clientSess.OpenStream()
		require.NoError(t, err)
		_, err = stream.Write([]byte{byte('a' + i)})
		require.NoError(t, err)
		buf := make([]byte, 1)
		_, err = io.ReadFull(stream, buf)
		require.NoError(t, err)
		require.Equal(t, byte('a'+i), buf[0])
		stream.Close()
	}

	clientSess.Close()
	serverSess.Close()
}
