package msgstream

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sunnywhy/kv/internal/wire"
)

func TestServerClientRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	server := NewServerStream(serverConn)
	client := NewClientStream(clientConn)

	req := wire.NewHset("t", "k", wire.NewStringValue("v"))
	go func() {
		require.NoError(t, client.Write(req))
	}()

	got, err := server.Read()
	require.NoError(t, err)
	require.Equal(t, req.Kind, got.Kind)
	require.Equal(t, req.Table, got.Table)

	resp := wire.FromValue(wire.NewStringValue("v"))
	go func() {
		require.NoError(t, server.Write(resp))
	}()

	gotResp, err := client.Read()
	require.NoError(t, err)
	require.Equal(t, uint32(200), gotResp.Status)
	require.Len(t, gotResp.Values, 1)
}
