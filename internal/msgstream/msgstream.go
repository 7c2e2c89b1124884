// Package msgstream wraps a duplex byte stream into a typed,
// bidirectional sequence of (inbound, outbound) messages (spec §4.4).
// The server binds inbound=CommandRequest, outbound=CommandResponse;
// the client binds the reverse.
//
// The Rust source buffers writes and flushes with repeated
// non-blocking poll_write calls because its I/O is async/poll-based.
// Go's net.Conn.Write already blocks until the full buffer is written
// (or fails), so Stream.Write performs that "submit then flush" cycle
// in one synchronous call instead of maintaining a separate write
// buffer and byte counter — same contract (one frame per call, no
// internal queueing beyond it), simpler implementation.
package msgstream

import (
	"io"

	"github.com/sunnywhy/kv/internal/frame"
	"github.com/sunnywhy/kv/internal/kverrors"
)

// halfCloser is implemented by net.Conn-like types that support a
// one-sided shutdown (net.TCPConn, tls.Conn).
type halfCloser interface {
	CloseWrite() error
}

// Stream adapts conn into typed message exchange using codec for
// framing and decode/encode for message (de)serialization.
type Stream[In, Out any] struct {
	conn   io.ReadWriteCloser
	codec  frame.Codec
	decode func([]byte) (In, error)
	encode func(Out) ([]byte, error)
}

// New builds a Stream over conn.
func New[In, Out any](conn io.ReadWriteCloser, decode func([]byte) (In, error), encode func(Out) ([]byte, error)) *Stream[In, Out] {
	return &Stream[In, Out]{conn: conn, decode: decode, encode: encode}
}

// Read pulls one complete frame and decodes it into In. The read
// buffer invariant from spec §4.4 ("empty at the start of every pull")
// holds trivially here since no buffer is retained between calls.
func (s *Stream[In, Out]) Read() (In, error) {
	var zero In
	payload, err := s.codec.Decode(s.conn)
	if err != nil {
		return zero, err
	}
	msg, err := s.decode(payload)
	if err != nil {
		return zero, &kverrors.DecodeError{Err: err}
	}
	return msg, nil
}

// Write encodes msg and flushes it as a single frame.
func (s *Stream[In, Out]) Write(msg Out) error {
	payload, err := s.encode(msg)
	if err != nil {
		return &kverrors.EncodeError{Err: err}
	}
	return s.codec.Encode(s.conn, payload)
}

// Close flushes (nothing pending, by construction) then shuts down the
// write half of the underlying stream, falling back to a full close if
// the stream doesn't support half-close.
func (s *Stream[In, Out]) Close() error {
	if hc, ok := s.conn.(halfCloser); ok {
		if err := hc.CloseWrite(); err != nil {
			return &kverrors.IoError{Op: "close write half", Err: err}
		}
		return nil
	}
	return s.conn.Close()
}
