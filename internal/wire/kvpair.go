package wire

import (
	"github.com/sunnywhy/kv/internal/kverrors"
	"google.golang.org/protobuf/encoding/protowire"
)

// KvPair schema: { 1: key string, 2: value Value }
const (
	tagPairKey   = protowire.Number(1)
	tagPairValue = protowire.Number(2)
)

// KvPair is (key, value) from spec §3. Keys are not interpreted by the
// core.
type KvPair struct {
	Key   string
	Value Value
}

// NewKvPair builds a KvPair.
func NewKvPair(key string, value Value) KvPair {
	return KvPair{Key: key, Value: value}
}

// Marshal encodes the KvPair message body.
func (p KvPair) Marshal() []byte {
	var buf []byte
	buf = appendStringField(buf, tagPairKey, p.Key)
	buf = appendEmbeddedMessage(buf, tagPairValue, p.Value.Marshal())
	return buf
}

// UnmarshalKvPair decodes a KvPair message body.
func UnmarshalKvPair(data []byte) (KvPair, error) {
	var p KvPair
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return KvPair{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
		}
		data = data[n:]
		switch num {
		case tagPairKey:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return KvPair{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			p.Key = s
			data = data[n:]
		case tagPairValue:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return KvPair{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			v, err := UnmarshalValue(b)
			if err != nil {
				return KvPair{}, err
			}
			p.Value = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return KvPair{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			data = data[n:]
		}
	}
	return p, nil
}
