package wire

import (
	"github.com/sunnywhy/kv/internal/kverrors"
	"google.golang.org/protobuf/encoding/protowire"
)

// RequestKind discriminates CommandRequest's oneof (spec §6.2).
type RequestKind uint8

const (
	ReqNone RequestKind = iota
	ReqHget
	ReqHgetall
	ReqHmget
	ReqHset
	ReqHmset
	ReqHdel
	ReqHmdel
	ReqHexist
	ReqHmexist
	ReqSubscribe
	ReqUnsubscribe
	ReqPublish
)

// Top-level oneof field numbers for CommandRequest. Each wraps a
// nested message whose own field numbers are documented per variant
// below — this mirrors protoc's encoding of a oneof of message types.
const (
	tagReqHget        = protowire.Number(1)
	tagReqHgetall     = protowire.Number(2)
	tagReqHmget       = protowire.Number(3)
	tagReqHset        = protowire.Number(4)
	tagReqHmset       = protowire.Number(5)
	tagReqHdel        = protowire.Number(6)
	tagReqHmdel       = protowire.Number(7)
	tagReqHexist      = protowire.Number(8)
	tagReqHmexist     = protowire.Number(9)
	tagReqSubscribe   = protowire.Number(10)
	tagReqUnsubscribe = protowire.Number(11)
	tagReqPublish     = protowire.Number(12)
)

// nested field numbers, reused across variants since each variant is
// its own embedded message namespace.
const (
	fTable = protowire.Number(1)
	fKey   = protowire.Number(2)
	fKeys  = protowire.Number(2)
	fPair  = protowire.Number(2)
	fPairs = protowire.Number(2)
	fTopic = protowire.Number(1)
	fID    = protowire.Number(2)
	fData  = protowire.Number(2)
)

// CommandRequest is the oneof described in spec §6.2. Exactly one
// group of fields is meaningful per Kind; unused fields are zero.
type CommandRequest struct {
	Kind  RequestKind
	Table string
	Key   string
	Keys  []string
	Pair  KvPair
	Pairs []KvPair
	Topic string
	ID    uint32
	Data  []Value
}

func NewHget(table, key string) CommandRequest {
	return CommandRequest{Kind: ReqHget, Table: table, Key: key}
}

func NewHgetAll(table string) CommandRequest {
	return CommandRequest{Kind: ReqHgetall, Table: table}
}

func NewHmget(table string, keys []string) CommandRequest {
	return CommandRequest{Kind: ReqHmget, Table: table, Keys: keys}
}

func NewHset(table, key string, value Value) CommandRequest {
	return CommandRequest{Kind: ReqHset, Table: table, Pair: NewKvPair(key, value)}
}

func NewHmset(table string, pairs []KvPair) CommandRequest {
	return CommandRequest{Kind: ReqHmset, Table: table, Pairs: pairs}
}

func NewHdel(table, key string) CommandRequest {
	return CommandRequest{Kind: ReqHdel, Table: table, Key: key}
}

func NewHmdel(table string, keys []string) CommandRequest {
	return CommandRequest{Kind: ReqHmdel, Table: table, Keys: keys}
}

func NewHexist(table, key string) CommandRequest {
	return CommandRequest{Kind: ReqHexist, Table: table, Key: key}
}

func NewHmexist(table string, keys []string) CommandRequest {
	return CommandRequest{Kind: ReqHmexist, Table: table, Keys: keys}
}

func NewSubscribe(topic string) CommandRequest {
	return CommandRequest{Kind: ReqSubscribe, Topic: topic}
}

func NewUnsubscribe(topic string, id uint32) CommandRequest {
	return CommandRequest{Kind: ReqUnsubscribe, Topic: topic, ID: id}
}

func NewPublish(topic string, data []Value) CommandRequest {
	return CommandRequest{Kind: ReqPublish, Topic: topic, Data: data}
}

// Marshal encodes the CommandRequest as a top-level protobuf message.
func (r CommandRequest) Marshal() ([]byte, error) {
	var body []byte
	switch r.Kind {
	case ReqHget, ReqHdel, ReqHexist:
		body = appendStringField(body, fTable, r.Table)
		body = appendStringField(body, fKey, r.Key)
	case ReqHgetall:
		body = appendStringField(body, fTable, r.Table)
	case ReqHmget, ReqHmdel, ReqHmexist:
		body = appendStringField(body, fTable, r.Table)
		for _, k := range r.Keys {
			body = appendStringField(body, fKeys, k)
		}
	case ReqHset:
		body = appendStringField(body, fTable, r.Table)
		body = appendEmbeddedMessage(body, fPair, r.Pair.Marshal())
	case ReqHmset:
		body = appendStringField(body, fTable, r.Table)
		for _, p := range r.Pairs {
			body = appendEmbeddedMessage(body, fPairs, p.Marshal())
		}
	case ReqSubscribe:
		body = appendStringField(body, fTopic, r.Topic)
	case ReqUnsubscribe:
		body = appendStringField(body, fTopic, r.Topic)
		body = appendVarintField(body, fID, uint64(r.ID))
	case ReqPublish:
		body = appendStringField(body, fTopic, r.Topic)
		for _, v := range r.Data {
			body = appendEmbeddedMessage(body, fData, v.Marshal())
		}
	default:
		return nil, &kverrors.InvalidCommand{Text: "empty request"}
	}

	var tag protowire.Number
	switch r.Kind {
	case ReqHget:
		tag = tagReqHget
	case ReqHgetall:
		tag = tagReqHgetall
	case ReqHmget:
		tag = tagReqHmget
	case ReqHset:
		tag = tagReqHset
	case ReqHmset:
		tag = tagReqHmset
	case ReqHdel:
		tag = tagReqHdel
	case ReqHmdel:
		tag = tagReqHmdel
	case ReqHexist:
		tag = tagReqHexist
	case ReqHmexist:
		tag = tagReqHmexist
	case ReqSubscribe:
		tag = tagReqSubscribe
	case ReqUnsubscribe:
		tag = tagReqUnsubscribe
	case ReqPublish:
		tag = tagReqPublish
	}

	var out []byte
	out = appendEmbeddedMessage(out, tag, body)
	return out, nil
}

// UnmarshalCommandRequest decodes a top-level CommandRequest message.
func UnmarshalCommandRequest(data []byte) (CommandRequest, error) {
	num, _, n := protowire.ConsumeTag(data)
	if n < 0 {
		return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
	}
	data = data[n:]
	body, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(n)}
	}

	r := CommandRequest{}
	switch num {
	case tagReqHget:
		r.Kind = ReqHget
	case tagReqHgetall:
		r.Kind = ReqHgetall
	case tagReqHmget:
		r.Kind = ReqHmget
	case tagReqHset:
		r.Kind = ReqHset
	case tagReqHmset:
		r.Kind = ReqHmset
	case tagReqHdel:
		r.Kind = ReqHdel
	case tagReqHmdel:
		r.Kind = ReqHmdel
	case tagReqHexist:
		r.Kind = ReqHexist
	case tagReqHmexist:
		r.Kind = ReqHmexist
	case tagReqSubscribe:
		r.Kind = ReqSubscribe
	case tagReqUnsubscribe:
		r.Kind = ReqUnsubscribe
	case tagReqPublish:
		r.Kind = ReqPublish
	default:
		return CommandRequest{}, &kverrors.InvalidCommand{Text: "unknown request variant"}
	}

	for len(body) > 0 {
		fnum, ftyp, fn := protowire.ConsumeTag(body)
		if fn < 0 {
			return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(fn)}
		}
		body = body[fn:]
		switch fnum {
		case 1: // table or topic, depending on variant
			s, sn := protowire.ConsumeString(body)
			if sn < 0 {
				return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(sn)}
			}
			if r.Kind == ReqSubscribe || r.Kind == ReqUnsubscribe || r.Kind == ReqPublish {
				r.Topic = s
			} else {
				r.Table = s
			}
			body = body[sn:]
		case 2:
			switch r.Kind {
			case ReqHget, ReqHdel, ReqHexist:
				s, sn := protowire.ConsumeString(body)
				if sn < 0 {
					return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(sn)}
				}
				r.Key = s
				body = body[sn:]
			case ReqHmget, ReqHmdel, ReqHmexist:
				s, sn := protowire.ConsumeString(body)
				if sn < 0 {
					return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(sn)}
				}
				r.Keys = append(r.Keys, s)
				body = body[sn:]
			case ReqHset:
				b, bn := protowire.ConsumeBytes(body)
				if bn < 0 {
					return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(bn)}
				}
				p, err := UnmarshalKvPair(b)
				if err != nil {
					return CommandRequest{}, err
				}
				r.Pair = p
				body = body[bn:]
			case ReqHmset:
				b, bn := protowire.ConsumeBytes(body)
				if bn < 0 {
					return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(bn)}
				}
				p, err := UnmarshalKvPair(b)
				if err != nil {
					return CommandRequest{}, err
				}
				r.Pairs = append(r.Pairs, p)
				body = body[bn:]
			case ReqUnsubscribe:
				u, un := protowire.ConsumeVarint(body)
				if un < 0 {
					return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(un)}
				}
				r.ID = uint32(u)
				body = body[un:]
			case ReqPublish:
				b, bn := protowire.ConsumeBytes(body)
				if bn < 0 {
					return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(bn)}
				}
				v, err := UnmarshalValue(b)
				if err != nil {
					return CommandRequest{}, err
				}
				r.Data = append(r.Data, v)
				body = body[bn:]
			default:
				fn := protowire.ConsumeFieldValue(fnum, ftyp, body)
				if fn < 0 {
					return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(fn)}
				}
				body = body[fn:]
			}
		default:
			fn := protowire.ConsumeFieldValue(fnum, ftyp, body)
			if fn < 0 {
				return CommandRequest{}, &kverrors.DecodeError{Err: protowire.ParseError(fn)}
			}
			body = body[fn:]
		}
	}

	return r, nil
}
