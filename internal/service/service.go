// Package service implements the command dispatcher: a storage handle,
// an event-hook chain, and a shared topic broadcaster composed into one
// value that every connection's stream loop dispatches against (spec
// §4.6). A *Service carries no per-connection state, so one instance is
// shared by every concurrent caller — the same "cheap to hand around"
// shape as the registry the teacher's responder composes from.
package service

import (
	"github.com/sunnywhy/kv/internal/pubsub"
	"github.com/sunnywhy/kv/internal/storage"
)

// Service is the dispatcher described by spec §4.6.
type Service struct {
	storage     storage.Storage
	broadcaster *pubsub.Broadcaster
	hooks       Hooks
}

// Option configures a Service at construction time. Hooks registered
// this way cannot be changed afterward — the chain is fixed once New
// returns, matching spec §4.6's "mutation after construction is not
// supported."
type Option func(*Service)

// WithStorage overrides the default in-memory engine.
func WithStorage(s storage.Storage) Option {
	return func(svc *Service) { svc.storage = s }
}

// WithBroadcaster overrides the default broadcaster.
func WithBroadcaster(b *pubsub.Broadcaster) Option {
	return func(svc *Service) { svc.broadcaster = b }
}

// New builds a Service. Without WithStorage/WithBroadcaster it owns a
// fresh in-memory engine and broadcaster.
func New(opts ...Option) *Service {
	svc := &Service{
		storage:     storage.NewMemTable(),
		broadcaster: pubsub.NewBroadcaster(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// NotifyAfterSend fires the OnAfterSend hook chain. The server loop
// calls this once a response has actually been written to the wire,
// since only it knows when that happened.
func (s *Service) NotifyAfterSend() {
	s.hooks.fireAfterSend()
}
