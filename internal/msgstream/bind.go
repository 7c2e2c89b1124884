package msgstream

import (
	"io"

	"github.com/sunnywhy/kv/internal/wire"
)

// ServerStream is the server binding: reads CommandRequest, writes
// CommandResponse.
type ServerStream = Stream[wire.CommandRequest, wire.CommandResponse]

// ClientStream is the client binding: reads CommandResponse, writes
// CommandRequest.
type ClientStream = Stream[wire.CommandResponse, wire.CommandRequest]

// NewServerStream binds conn as the server side of the framed message
// protocol.
func NewServerStream(conn io.ReadWriteCloser) *ServerStream {
	return New[wire.CommandRequest, wire.CommandResponse](conn, wire.UnmarshalCommandRequest, func(r wire.CommandResponse) ([]byte, error) {
		return r.Marshal(), nil
	})
}

// NewClientStream binds conn as the client side of the framed message
// protocol.
func NewClientStream(conn io.ReadWriteCloser) *ClientStream {
	return New[wire.CommandResponse, wire.CommandRequest](conn, func(b []byte) (wire.CommandResponse, error) {
		return wire.UnmarshalCommandResponse(b)
	}, func(r wire.CommandRequest) ([]byte, error) {
		return r.Marshal()
	})
}
