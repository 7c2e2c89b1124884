// Package frame implements the length-prefixed, optionally compressed
// frame codec of spec §4.1 and §6.1: a 4-byte big-endian header (high
// bit = compressed flag, low 31 bits = payload length) followed by the
// payload, gzip-compressed once it exceeds a configurable threshold.
package frame

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/sunnywhy/kv/internal/kverrors"
)

const (
	// HeaderBytes is the fixed length-prefix size.
	HeaderBytes = 4

	// compressedBit is the header's high bit (bit 31).
	compressedBit uint32 = 1 << 31

	// lengthMask isolates the low 31 bits carrying the payload length.
	lengthMask uint32 = compressedBit - 1

	// MaxFrame is the largest payload length the low 31 header bits
	// can express: 2 GiB - 1.
	MaxFrame = 2*1024*1024*1024 - 1

	// DefaultCompressionThreshold targets one Ethernet MTU minus
	// typical IP+TCP headers plus safety margin (spec §4.1). It is a
	// heuristic, not a correctness boundary, but every encoder must
	// default to it.
	DefaultCompressionThreshold = 1436
)

// Codec encodes/decodes frames over a byte stream. The zero value uses
// DefaultCompressionThreshold.
type Codec struct {
	// CompressionThreshold is the payload size, in bytes, above which
	// Encode gzip-compresses the payload. Zero means
	// DefaultCompressionThreshold.
	CompressionThreshold int
}

func (c Codec) threshold() int {
	if c.CompressionThreshold <= 0 {
		return DefaultCompressionThreshold
	}
	return c.CompressionThreshold
}

// Encode writes one frame containing payload to w.
func (c Codec) Encode(w io.Writer, payload []byte) error {
	if len(payload) > MaxFrame {
		return &kverrors.FrameError{Reason: "payload exceeds 2GiB-1"}
	}

	if len(payload) <= c.threshold() {
		var header [HeaderBytes]byte
		binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
		if _, err := w.Write(header[:]); err != nil {
			return &kverrors.IoError{Op: "write frame header", Err: err}
		}
		if _, err := w.Write(payload); err != nil {
			return &kverrors.IoError{Op: "write frame payload", Err: err}
		}
		return nil
	}

	var compressed bytes.Buffer
	gw, err := gzip.NewWriterLevel(&compressed, gzip.DefaultCompression)
	if err != nil {
		return &kverrors.FrameError{Reason: "gzip writer init", Err: err}
	}
	if _, err := gw.Write(payload); err != nil {
		return &kverrors.FrameError{Reason: "gzip compress", Err: err}
	}
	if err := gw.Close(); err != nil {
		return &kverrors.FrameError{Reason: "gzip flush", Err: err}
	}

	if compressed.Len() > MaxFrame {
		return &kverrors.FrameError{Reason: "compressed payload exceeds 2GiB-1"}
	}

	var header [HeaderBytes]byte
	binary.BigEndian.PutUint32(header[:], compressedBit|uint32(compressed.Len()))
	if _, err := w.Write(header[:]); err != nil {
		return &kverrors.IoError{Op: "write frame header", Err: err}
	}
	if _, err := w.Write(compressed.Bytes()); err != nil {
		return &kverrors.IoError{Op: "write frame payload", Err: err}
	}
	return nil
}

// Decode reads exactly one frame from r and returns its (decompressed)
// payload.
func (c Codec) Decode(r io.Reader) ([]byte, error) {
	var header [HeaderBytes]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, &kverrors.IoError{Op: "read frame header", Err: err}
	}

	raw := binary.BigEndian.Uint32(header[:])
	length := raw & lengthMask
	compressed := raw&compressedBit != 0

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, &kverrors.IoError{Op: "read frame payload", Err: err}
	}

	if !compressed {
		return payload, nil
	}

	gr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &kverrors.FrameError{Reason: "gzip reader init", Err: err}
	}
	defer gr.Close()

	decompressed, err := io.ReadAll(gr)
	if err != nil {
		return nil, &kverrors.FrameError{Reason: "gzip decompress", Err: err}
	}
	return decompressed, nil
}

// IsCompressed reports the compression bit of an already-read 4-byte
// header, exposed for tests asserting on-wire compression behavior
// (spec §8 invariant 2).
func IsCompressed(header []byte) bool {
	raw := binary.BigEndian.Uint32(header)
	return raw&compressedBit != 0
}
