// Package pubsub implements topic subscription and delivery (spec
// §4.7). It follows the same RWMutex-guarded map idiom as
// internal/storage, with one subscriber table per topic.
package pubsub

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/sunnywhy/kv/internal/wire"
)

// subscriberCapacity bounds how many undelivered responses a single
// subscriber channel can hold before Publish starts dropping for it.
const subscriberCapacity = 128

// Broadcaster fans published values out to every live subscriber of a
// topic. Subscription ids are scoped to a single Broadcaster instance,
// not global, so two independent servers (or two tests) never collide
// on id space.
type Broadcaster struct {
	mu     sync.RWMutex
	topics map[string]map[uint32]chan wire.CommandResponse
	nextID atomic.Uint32
}

// NewBroadcaster returns an empty broadcaster. Its id counter starts at
// 1, monotonically increasing, matching the first-message-is-id
// contract every subscriber observes.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{topics: make(map[string]map[uint32]chan wire.CommandResponse)}
}

// Subscribe registers a new subscriber on topic and returns its id and
// the channel it will receive responses on. The first response enqueued
// on that channel is always {values:[Integer(id)]} — the subscriber's
// identity prefix — pushed before Subscribe returns, so it can never
// race a concurrent Publish onto the same channel.
func (b *Broadcaster) Subscribe(topic string) (uint32, <-chan wire.CommandResponse) {
	id := b.nextID.Add(1)
	ch := make(chan wire.CommandResponse, subscriberCapacity)
	ch <- wire.FromValue(wire.NewIntValue(int64(id)))

	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[uint32]chan wire.CommandResponse)
		b.topics[topic] = subs
	}
	subs[id] = ch
	return id, ch
}

// Unsubscribe removes subscription id from topic, closing its channel.
// It is idempotent: removing an unknown id or topic is a silent no-op,
// matching spec §4.7. close(ch) runs under the write lock, and Publish
// sends to a subscriber's channel only while holding the read lock
// (never after releasing it), so a close here can never interleave
// with an in-flight send — the two are mutually exclusive, not just
// ordered.
func (b *Broadcaster) Unsubscribe(topic string, id uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs, ok := b.topics[topic]
	if !ok {
		return
	}
	ch, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(b.topics, topic)
	}
	close(ch)
}

// Publish delivers values to every current subscriber of topic as one
// CommandResponse each. A no-op on an unknown topic. Delivery is
// best-effort: a subscriber whose queue is full is skipped rather than
// blocking the publisher or any other subscriber. The sends happen
// while still holding the read lock so a concurrent Unsubscribe (which
// takes the write lock to close the channel) can never race a send on
// the same channel — the lock, not the channel state, is what makes
// this safe.
func (b *Broadcaster) Publish(topic string, values []wire.Value) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	resp := wire.FromValues(values)
	for id, ch := range b.topics[topic] {
		select {
		case ch <- resp:
		default:
			logrus.WithFields(logrus.Fields{"topic": topic, "subscriber": id}).
				Debug("dropping publish: subscriber queue full")
		}
	}
}

// UnsubscribeAll tears down every subscription a connection holds when
// it closes, keyed by topic name.
func (b *Broadcaster) UnsubscribeAll(subscriptions map[string]uint32) {
	for topic, id := range subscriptions {
		b.Unsubscribe(topic, id)
	}
}
