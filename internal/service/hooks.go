package service

import "github.com/sunnywhy/kv/internal/wire"

// Hooks holds the four independent ordered callback lists fired around
// dispatch (spec §4.6). Only OnBeforeSend is permitted to mutate the
// response it's given; the rest observe.
type Hooks struct {
	OnReceived   []func(*wire.CommandRequest)
	OnExecuted   []func(*wire.CommandResponse)
	OnBeforeSend []func(*wire.CommandResponse)
	OnAfterSend  []func()
}

func (h *Hooks) fireReceived(req *wire.CommandRequest) {
	for _, fn := range h.OnReceived {
		fn(req)
	}
}

func (h *Hooks) fireExecuted(resp *wire.CommandResponse) {
	for _, fn := range h.OnExecuted {
		fn(resp)
	}
}

func (h *Hooks) fireBeforeSend(resp *wire.CommandResponse) {
	for _, fn := range h.OnBeforeSend {
		fn(resp)
	}
}

func (h *Hooks) fireAfterSend() {
	for _, fn := range h.OnAfterSend {
		fn()
	}
}
