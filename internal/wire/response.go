package wire

import (
	"github.com/sunnywhy/kv/internal/kverrors"
	"google.golang.org/protobuf/encoding/protowire"
)

// CommandResponse schema: { 1: status uint32, 2: message string,
// 3: values repeated Value, 4: pairs repeated KvPair }
const (
	tagRespStatus  = protowire.Number(1)
	tagRespMessage = protowire.Number(2)
	tagRespValues  = protowire.Number(3)
	tagRespPairs   = protowire.Number(4)
)

// CommandResponse is the fixed-shape record from spec §3.
type CommandResponse struct {
	Status  uint32
	Message string
	Values  []Value
	Pairs   []KvPair
}

// OKResponse returns a bare status-200 response with no payload, used
// by Publish/Unsubscribe's streaming acknowledgement (original source:
// CommandResponse::ok()).
func OKResponse() CommandResponse {
	return CommandResponse{Status: 200}
}

// FromValue wraps a single Value as a 200 response.
func FromValue(v Value) CommandResponse {
	return CommandResponse{Status: 200, Values: []Value{v}}
}

// FromValues wraps a Value slice as a 200 response, preserving order.
func FromValues(vs []Value) CommandResponse {
	return CommandResponse{Status: 200, Values: vs}
}

// FromPairs wraps a KvPair slice as a 200 response.
func FromPairs(pairs []KvPair) CommandResponse {
	return CommandResponse{Status: 200, Pairs: pairs}
}

// FromError converts an error into the CommandResponse the dispatcher
// sends back, per the status mapping in spec §7.
func FromError(err error) CommandResponse {
	return CommandResponse{Status: kverrors.StatusCode(err), Message: err.Error()}
}

// Marshal encodes the CommandResponse as a top-level protobuf message.
func (r CommandResponse) Marshal() []byte {
	var buf []byte
	buf = appendVarintField(buf, tagRespStatus, uint64(r.Status))
	if r.Message != "" {
		buf = appendStringField(buf, tagRespMessage, r.Message)
	}
	for _, v := range r.Values {
		buf = appendEmbeddedMessage(buf, tagRespValues, v.Marshal())
	}
	for _, p := range r.Pairs {
		buf = appendEmbeddedMessage(buf, tagRespPairs, p.Marshal())
	}
	return buf
}

// UnmarshalCommandResponse decodes a top-level CommandResponse message.
func UnmarshalCommandResponse(data []byte) (CommandResponse, error) {
	var r CommandResponse
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return CommandResponse{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
		}
		data = data[n:]
		switch num {
		case tagRespStatus:
			u, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return CommandResponse{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			r.Status = uint32(u)
			data = data[n:]
		case tagRespMessage:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return CommandResponse{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			r.Message = s
			data = data[n:]
		case tagRespValues:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return CommandResponse{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			v, err := UnmarshalValue(b)
			if err != nil {
				return CommandResponse{}, err
			}
			r.Values = append(r.Values, v)
			data = data[n:]
		case tagRespPairs:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return CommandResponse{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			p, err := UnmarshalKvPair(b)
			if err != nil {
				return CommandResponse{}, err
			}
			r.Pairs = append(r.Pairs, p)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return CommandResponse{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
			}
			data = data[n:]
		}
	}
	return r, nil
}
