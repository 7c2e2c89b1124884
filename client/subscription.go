package client

import (
	"errors"

	"github.com/sunnywhy/kv/internal/kverrors"
	"github.com/sunnywhy/kv/internal/msgstream"
	"github.com/sunnywhy/kv/internal/wire"
)

var errUnexpectedIdentityFrame = errors.New("expected single Integer value as subscription identity")

// SubscriptionStream is the client-side handle for a live Subscribe
// request. Its ID is split off the stream's first message during
// Subscribe; Next yields every subsequent message published on the
// topic, one call per published CommandResponse (spec §4.7).
type SubscriptionStream struct {
	ID     uint32
	stream *msgstream.ClientStream
}

// Subscribe opens a fresh logical stream, issues Subscribe(topic), and
// consumes the identity prefix every subscription stream starts with
// before returning the handle.
func (c *Client) Subscribe(topic string) (*SubscriptionStream, error) {
	conn, err := c.sess.OpenStream()
	if err != nil {
		return nil, err
	}

	stream := msgstream.NewClientStream(conn)
	if err := stream.Write(wire.NewSubscribe(topic)); err != nil {
		conn.Close()
		return nil, err
	}

	idResp, err := stream.Read()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if len(idResp.Values) != 1 || idResp.Values[0].Kind != wire.ValueInteger {
		conn.Close()
		return nil, &kverrors.DecodeError{Err: errUnexpectedIdentityFrame}
	}

	return &SubscriptionStream{
		ID:     uint32(idResp.Values[0].Int),
		stream: stream,
	}, nil
}

// Next blocks for the next message published on this subscription.
func (s *SubscriptionStream) Next() (wire.CommandResponse, error) {
	return s.stream.Read()
}

// Close ends the underlying logical stream. It does not itself
// unsubscribe: call Client.Call with NewUnsubscribe first if the server
// should stop delivering before the stream is torn down.
func (s *SubscriptionStream) Close() error {
	return s.stream.Close()
}
