// Package kverrors defines the error kinds the KV core surfaces (spec §7).
//
// Each kind is its own struct carrying operation context and, where one
// exists, the underlying cause, so callers can use errors.Is/errors.As
// to inspect the chain instead of matching on string content.
package kverrors

import "fmt"

// NotFound is returned when a read path explicitly fails on a missing
// key. Hget is the only dispatcher path that treats a miss as an error;
// every other read returns a null/zero Value instead.
type NotFound struct {
	Table string
	Key   string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("Not found: table %q key %q", e.Table, e.Key)
}

// InvalidCommand is returned when a CommandRequest carries no variant,
// or a variant the dispatcher does not recognize.
type InvalidCommand struct {
	Text string
}

func (e *InvalidCommand) Error() string {
	return fmt.Sprintf("invalid command: %s", e.Text)
}

// ConvertError is returned when a Value/CommandResponse conversion
// fails, e.g. decoding a wire Value whose oneof tag is unrecognized.
type ConvertError struct {
	From string
	To   string
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

// StorageError wraps a failure from the backing storage engine.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// EncodeError is returned when a message fails to serialize.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode error: %v", e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError is returned when a message fails to deserialize.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode error: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// FrameError is returned for oversize frames or decompression failure.
// It always closes the affected stream.
type FrameError struct {
	Reason string
	Err    error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frame error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("frame error: %s", e.Reason)
}

func (e *FrameError) Unwrap() error { return e.Err }

// CertificateParseError is fatal at TLS construction time: a cert or
// key PEM block could not be parsed.
type CertificateParseError struct {
	Role string // "server", "client", "ca", "private"
	Kind string // "cert", "key"
	Err  error
}

func (e *CertificateParseError) Error() string {
	return fmt.Sprintf("certificate parse error: %s %s: %v", e.Role, e.Kind, e.Err)
}

func (e *CertificateParseError) Unwrap() error { return e.Err }

// TlsError wraps a handshake failure; it closes the connection.
type TlsError struct {
	Op  string
	Err error
}

func (e *TlsError) Error() string { return fmt.Sprintf("tls error during %s: %v", e.Op, e.Err) }
func (e *TlsError) Unwrap() error { return e.Err }

// IoError wraps a failure on the underlying byte stream.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("io error during %s: %v", e.Op, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// Internal is a catch-all for conditions that do not map cleanly onto
// any of the above (e.g. an invalid DNS name passed to the connector).
type Internal struct {
	Text string
}

func (e *Internal) Error() string { return fmt.Sprintf("internal error: %s", e.Text) }

// StatusCode maps an error produced by this package to the HTTP-style
// status the dispatcher places in a CommandResponse (spec §7).
func StatusCode(err error) uint32 {
	switch err.(type) {
	case *NotFound:
		return 404
	case *InvalidCommand:
		return 400
	case nil:
		return 200
	default:
		return 500
	}
}
