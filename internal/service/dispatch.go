package service

import (
	"github.com/sunnywhy/kv/internal/kverrors"
	"github.com/sunnywhy/kv/internal/wire"
)

var invalidEmptyRequest = &kverrors.InvalidCommand{Text: "empty request"}

// Result is the response stream a dispatched request produces. Every
// command yields a stream of length >= 1: unary commands close
// Responses after their single element, Subscribe leaves it open until
// Cleanup runs or the broadcaster's topic is torn down from elsewhere.
type Result struct {
	// Responses carries every response belonging to this request, in
	// order. The caller must drain it until closed.
	Responses <-chan wire.CommandResponse

	// Cleanup releases any resources the request allocated — the
	// broadcaster subscription, for Subscribe — and is always safe to
	// call more than once. Callers invoke it when the owning logical
	// stream ends.
	Cleanup func()
}

// Execute dispatches req and returns its result stream (spec §4.6).
//
// Read/Write hash commands and the pub/sub acknowledgements (Publish,
// Unsubscribe) run the full hook sequence — OnReceived, then OnExecuted
// and OnBeforeSend around their single response. Subscribe's ongoing
// delivery stream is not "the response" to the Subscribe request in the
// same sense: those are independently published messages relayed
// verbatim, so they bypass OnExecuted/OnBeforeSend and only the initial
// OnReceived fires for the Subscribe request itself.
func (s *Service) Execute(req wire.CommandRequest) Result {
	s.hooks.fireReceived(&req)

	if req.Kind == wire.ReqSubscribe {
		id, ch := s.broadcaster.Subscribe(req.Topic)
		topic := req.Topic
		return Result{
			Responses: ch,
			Cleanup:   func() { s.broadcaster.Unsubscribe(topic, id) },
		}
	}

	resp := s.dispatchSync(req)
	s.hooks.fireExecuted(&resp)
	s.hooks.fireBeforeSend(&resp)

	ch := make(chan wire.CommandResponse, 1)
	ch <- resp
	close(ch)
	return Result{Responses: ch, Cleanup: func() {}}
}

func (s *Service) dispatchSync(req wire.CommandRequest) wire.CommandResponse {
	switch req.Kind {
	case wire.ReqPublish:
		return s.dispatchPublish(req)
	case wire.ReqUnsubscribe:
		return s.dispatchUnsubscribe(req)
	case wire.ReqNone:
		return wire.FromError(invalidEmptyRequest)
	default:
		return s.dispatchHash(req)
	}
}
