// Package wire implements the message schema of spec §6.2 — Value,
// KvPair, CommandRequest, CommandResponse — and a protobuf-wire-compatible
// encoder/decoder for each, built directly on
// google.golang.org/protobuf/encoding/protowire rather than generated
// .pb.go code, since the schema is small, fixed, and hand-tag-numbered
// (spec §6.2: "Exact tag numbers are fixed by the schema file").
//
// Wire schema (field numbers are part of the wire contract; each message's
// numbers are declared as constants beside its Marshal/Unmarshal pair):
//
//	Value      { 1: string, 2: int64, 3: bool, 4: bytes }
//	KvPair     { 1: key string, 2: value Value }
package wire

import (
	"fmt"

	"github.com/sunnywhy/kv/internal/kverrors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ValueKind discriminates Value's oneof. The zero value, ValueNull, is
// the "previous value did not exist" sentinel described in spec §3.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueString
	ValueInteger
	ValueBool
	ValueBinary
)

const (
	tagValueString  = protowire.Number(1)
	tagValueInteger = protowire.Number(2)
	tagValueBool    = protowire.Number(3)
	tagValueBinary  = protowire.Number(4)
)

// Value is the tagged union over {null, string, int64, bool, bytes}
// from spec §3. A zero Value is the null variant.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int64
	Bool bool
	Bin  []byte
}

// NewStringValue builds a string-variant Value.
func NewStringValue(s string) Value { return Value{Kind: ValueString, Str: s} }

// NewIntValue builds an integer-variant Value.
func NewIntValue(i int64) Value { return Value{Kind: ValueInteger, Int: i} }

// NewBoolValue builds a bool-variant Value.
func NewBoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b} }

// NewBinaryValue builds a bytes-variant Value.
func NewBinaryValue(b []byte) Value { return Value{Kind: ValueBinary, Bin: b} }

// IsNull reports whether v is the null sentinel.
func (v Value) IsNull() bool { return v.Kind == ValueNull }

// Equal reports whether two Values carry the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValueString:
		return v.Str == other.Str
	case ValueInteger:
		return v.Int == other.Int
	case ValueBool:
		return v.Bool == other.Bool
	case ValueBinary:
		if len(v.Bin) != len(other.Bin) {
			return false
		}
		for i := range v.Bin {
			if v.Bin[i] != other.Bin[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.Kind {
	case ValueNull:
		return "null"
	case ValueString:
		return v.Str
	case ValueInteger:
		return fmt.Sprintf("%d", v.Int)
	case ValueBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValueBinary:
		return fmt.Sprintf("<%d bytes>", len(v.Bin))
	default:
		return "<unknown>"
	}
}

// Marshal encodes v as a protobuf message body (no outer length prefix;
// callers that embed a Value as a submessage field add that prefix
// themselves via appendEmbeddedMessage in codec.go).
func (v Value) Marshal() []byte {
	var buf []byte
	switch v.Kind {
	case ValueString:
		buf = protowire.AppendTag(buf, tagValueString, protowire.BytesType)
		buf = protowire.AppendString(buf, v.Str)
	case ValueInteger:
		buf = protowire.AppendTag(buf, tagValueInteger, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(v.Int))
	case ValueBool:
		buf = protowire.AppendTag(buf, tagValueBool, protowire.VarintType)
		if v.Bool {
			buf = protowire.AppendVarint(buf, 1)
		} else {
			buf = protowire.AppendVarint(buf, 0)
		}
	case ValueBinary:
		buf = protowire.AppendTag(buf, tagValueBinary, protowire.BytesType)
		buf = protowire.AppendBytes(buf, v.Bin)
	case ValueNull:
		// no fields set
	}
	return buf
}

// UnmarshalValue decodes a Value message body.
func UnmarshalValue(data []byte) (Value, error) {
	var v Value
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Value{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
		}
		data = data[n:]
		switch num {
		case tagValueString:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return Value{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			v = Value{Kind: ValueString, Str: s}
			data = data[n:]
		case tagValueInteger:
			u, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Value{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			v = Value{Kind: ValueInteger, Int: int64(u)}
			data = data[n:]
		case tagValueBool:
			u, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Value{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			v = Value{Kind: ValueBool, Bool: u != 0}
			data = data[n:]
		case tagValueBinary:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Value{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			cp := make([]byte, len(b))
			copy(cp, b)
			v = Value{Kind: ValueBinary, Bin: cp}
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Value{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			data = data[n:]
		}
	}
	return v, nil
}
