package service

import "github.com/sunnywhy/kv/internal/wire"

// WithOnReceived appends fn to the OnReceived hook list, fired with the
// inbound request before dispatch.
func WithOnReceived(fn func(*wire.CommandRequest)) Option {
	return func(svc *Service) { svc.hooks.OnReceived = append(svc.hooks.OnReceived, fn) }
}

// WithOnExecuted appends fn to the OnExecuted hook list, fired with the
// dispatcher's response before OnBeforeSend runs.
func WithOnExecuted(fn func(*wire.CommandResponse)) Option {
	return func(svc *Service) { svc.hooks.OnExecuted = append(svc.hooks.OnExecuted, fn) }
}

// WithOnBeforeSend appends fn to the OnBeforeSend hook list, the only
// hook permitted to mutate the response before it's sent.
func WithOnBeforeSend(fn func(*wire.CommandResponse)) Option {
	return func(svc *Service) { svc.hooks.OnBeforeSend = append(svc.hooks.OnBeforeSend, fn) }
}

// WithOnAfterSend appends fn to the OnAfterSend hook list, fired once a
// response has been written to the wire.
func WithOnAfterSend(fn func()) Option {
	return func(svc *Service) { svc.hooks.OnAfterSend = append(svc.hooks.OnAfterSend, fn) }
}
