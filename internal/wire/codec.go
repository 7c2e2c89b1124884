package wire

import "google.golang.org/protobuf/encoding/protowire"

// appendEmbeddedMessage writes field num as a length-delimited
// submessage whose body is body. This is the one piece of boilerplate
// every nested message (Value inside KvPair, KvPair inside
// CommandResponse, the request variants inside CommandRequest) needs,
// so it is centralized here instead of repeated per call site.
func appendEmbeddedMessage(buf []byte, num protowire.Number, body []byte) []byte {
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	buf = protowire.AppendVarint(buf, uint64(len(body)))
	buf = append(buf, body...)
	return buf
}

func appendStringField(buf []byte, num protowire.Number, s string) []byte {
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	buf = protowire.AppendString(buf, s)
	return buf
}

func appendVarintField(buf []byte, num protowire.Number, v uint64) []byte {
	buf = protowire.AppendTag(buf, num, protowire.VarintType)
	buf = protowire.AppendVarint(buf, v)
	return buf
}
