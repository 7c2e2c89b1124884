package service

import (
	"github.com/sunnywhy/kv/internal/kverrors"
	"github.com/sunnywhy/kv/internal/wire"
)

// dispatchHash executes the nine table commands against storage (spec
// §4.6). Hget is the sole command that can answer 404; every other
// command returns 200 with the previous/current value, null standing
// in for "no such key."
func (s *Service) dispatchHash(req wire.CommandRequest) wire.CommandResponse {
	switch req.Kind {
	case wire.ReqHget:
		v, ok, err := s.storage.Get(req.Table, req.Key)
		if err != nil {
			return wire.FromError(&kverrors.StorageError{Op: "hget", Err: err})
		}
		if !ok {
			return wire.FromError(&kverrors.NotFound{Table: req.Table, Key: req.Key})
		}
		return wire.FromValue(v)

	case wire.ReqHgetall:
		pairs, err := s.storage.GetAll(req.Table)
		if err != nil {
			return wire.FromError(&kverrors.StorageError{Op: "hgetall", Err: err})
		}
		return wire.FromPairs(pairs)

	case wire.ReqHmget:
		values := make([]wire.Value, len(req.Keys))
		for i, k := range req.Keys {
			v, ok, err := s.storage.Get(req.Table, k)
			if err != nil {
				return wire.FromError(&kverrors.StorageError{Op: "hmget", Err: err})
			}
			if ok {
				values[i] = v
			}
		}
		return wire.FromValues(values)

	case wire.ReqHset:
		prev, _, err := s.storage.Set(req.Table, req.Pair.Key, req.Pair.Value)
		if err != nil {
			return wire.FromError(&kverrors.StorageError{Op: "hset", Err: err})
		}
		return wire.FromValue(prev)

	case wire.ReqHmset:
		values := make([]wire.Value, len(req.Pairs))
		for i, p := range req.Pairs {
			prev, _, err := s.storage.Set(req.Table, p.Key, p.Value)
			if err != nil {
				return wire.FromError(&kverrors.StorageError{Op: "hmset", Err: err})
			}
			values[i] = prev
		}
		return wire.FromValues(values)

	case wire.ReqHdel:
		prev, _, err := s.storage.Del(req.Table, req.Key)
		if err != nil {
			return wire.FromError(&kverrors.StorageError{Op: "hdel", Err: err})
		}
		return wire.FromValue(prev)

	case wire.ReqHmdel:
		values := make([]wire.Value, len(req.Keys))
		for i, k := range req.Keys {
			prev, _, err := s.storage.Del(req.Table, k)
			if err != nil {
				return wire.FromError(&kverrors.StorageError{Op: "hmdel", Err: err})
			}
			values[i] = prev
		}
		return wire.FromValues(values)

	case wire.ReqHexist:
		ok, err := s.storage.Contains(req.Table, req.Key)
		if err != nil {
			return wire.FromError(&kverrors.StorageError{Op: "hexist", Err: err})
		}
		return wire.FromValue(wire.NewBoolValue(ok))

	case wire.ReqHmexist:
		values := make([]wire.Value, len(req.Keys))
		for i, k := range req.Keys {
			ok, err := s.storage.Contains(req.Table, k)
			if err != nil {
				return wire.FromError(&kverrors.StorageError{Op: "hmexist", Err: err})
			}
			values[i] = wire.NewBoolValue(ok)
		}
		return wire.FromValues(values)

	default:
		return wire.FromError(&kverrors.InvalidCommand{Text: "unsupported hash command"})
	}
}

// dispatchPublish fans req.Data out to topic's subscribers and
// acknowledges with a bare 200.
func (s *Service) dispatchPublish(req wire.CommandRequest) wire.CommandResponse {
	s.broadcaster.Publish(req.Topic, req.Data)
	return wire.OKResponse()
}

// dispatchUnsubscribe tears down a subscription and acknowledges with a
// bare 200, regardless of whether the subscription still existed.
func (s *Service) dispatchUnsubscribe(req wire.CommandRequest) wire.CommandResponse {
	s.broadcaster.Unsubscribe(req.Topic, req.ID)
	return wire.OKResponse()
}
