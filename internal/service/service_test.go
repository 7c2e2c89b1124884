package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunnywhy/kv/internal/wire"
)

func drainOne(t *testing.T, r Result) wire.CommandResponse {
	t.Helper()
	select {
	case resp, ok := <-r.Responses:
		require.True(t, ok)
		return resp
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for response")
		return wire.CommandResponse{}
	}
}

func assertClosed(t *testing.T, r Result) {
	t.Helper()
	select {
	case _, ok := <-r.Responses:
		assert.False(t, ok, "expected unary result stream to be closed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream close")
	}
}

func TestHsetThenHget(t *testing.T) {
	svc := New()

	r1 := svc.Execute(wire.NewHset("t", "k", wire.NewStringValue("v")))
	resp1 := drainOne(t, r1)
	assert.EqualValues(t, 200, resp1.Status)
	require.Len(t, resp1.Values, 1)
	assert.True(t, resp1.Values[0].IsNull())
	assertClosed(t, r1)

	r2 := svc.Execute(wire.NewHset("t", "k", wire.NewStringValue("v2")))
	resp2 := drainOne(t, r2)
	require.Len(t, resp2.Values, 1)
	assert.Equal(t, "v", resp2.Values[0].Str)

	r3 := svc.Execute(wire.NewHget("t", "k"))
	resp3 := drainOne(t, r3)
	assert.EqualValues(t, 200, resp3.Status)
	assert.Equal(t, "v2", resp3.Values[0].Str)
}

func TestHgetMissingKeyIs404(t *testing.T) {
	svc := New()
	r := svc.Execute(wire.NewHget("score", "math"))
	resp := drainOne(t, r)
	assert.EqualValues(t, 404, resp.Status)
	assert.Contains(t, resp.Message, "Not found")
	assert.Empty(t, resp.Values)
	assert.Empty(t, resp.Pairs)
}

func TestHdelIsIdempotent(t *testing.T) {
	svc := New()
	svc.Execute(wire.NewHset("t", "k", wire.NewBoolValue(true)))

	r1 := svc.Execute(wire.NewHdel("t", "k"))
	resp1 := drainOne(t, r1)
	assert.True(t, resp1.Values[0].Bool)

	r2 := svc.Execute(wire.NewHdel("t", "k"))
	resp2 := drainOne(t, r2)
	assert.True(t, resp2.Values[0].IsNull())
}

func TestHmsetOrderingWithRepeatedKey(t *testing.T) {
	svc := New()
	pairs := []wire.KvPair{
		wire.NewKvPair("math", wire.NewIntValue(10)),
		wire.NewKvPair("english", wire.NewIntValue(20)),
		wire.NewKvPair("chinese", wire.NewIntValue(30)),
		wire.NewKvPair("math", wire.NewIntValue(40)),
	}
	r := svc.Execute(wire.NewHmset("score", pairs))
	resp := drainOne(t, r)
	require.Len(t, resp.Values, 4)
	assert.True(t, resp.Values[0].IsNull())
	assert.True(t, resp.Values[1].IsNull())
	assert.True(t, resp.Values[2].IsNull())
	assert.EqualValues(t, 10, resp.Values[3].Int)

	all := svc.Execute(wire.NewHgetAll("score"))
	allResp := drainOne(t, all)
	require.Len(t, allResp.Pairs, 3)
	byKey := map[string]int64{}
	for _, p := range allResp.Pairs {
		byKey[p.Key] = p.Value.Int
	}
	assert.EqualValues(t, 40, byKey["math"])
	assert.EqualValues(t, 20, byKey["english"])
	assert.EqualValues(t, 30, byKey["chinese"])
}

func TestHmgetPreservesLengthAndOrder(t *testing.T) {
	svc := New()
	svc.Execute(wire.NewHset("t", "a", wire.NewIntValue(1)))
	svc.Execute(wire.NewHset("t", "c", wire.NewIntValue(3)))

	r := svc.Execute(wire.NewHmget("t", []string{"a", "b", "c"}))
	resp := drainOne(t, r)
	require.Len(t, resp.Values, 3)
	assert.EqualValues(t, 1, resp.Values[0].Int)
	assert.True(t, resp.Values[1].IsNull())
	assert.EqualValues(t, 3, resp.Values[2].Int)
}

func TestHexistAndHmexist(t *testing.T) {
	svc := New()
	svc.Execute(wire.NewHset("t", "a", wire.NewIntValue(1)))

	r := svc.Execute(wire.NewHexist("t", "a"))
	assert.True(t, drainOne(t, r).Values[0].Bool)

	r2 := svc.Execute(wire.NewHexist("t", "missing"))
	assert.False(t, drainOne(t, r2).Values[0].Bool)

	r3 := svc.Execute(wire.NewHmexist("t", []string{"a", "missing"}))
	resp3 := drainOne(t, r3)
	assert.True(t, resp3.Values[0].Bool)
	assert.False(t, resp3.Values[1].Bool)
}

func TestHookMutationOnBeforeSend(t *testing.T) {
	svc := New(WithOnBeforeSend(func(r *wire.CommandResponse) {
		r.Status = 201
	}))
	r := svc.Execute(wire.NewHset("t", "k", wire.NewStringValue("v")))
	resp := drainOne(t, r)
	assert.EqualValues(t, 201, resp.Status)
}

func TestHookOrderingAcrossAllFourLists(t *testing.T) {
	var order []string
	svc := New(
		WithOnReceived(func(*wire.CommandRequest) { order = append(order, "received") }),
		WithOnExecuted(func(*wire.CommandResponse) { order = append(order, "executed") }),
		WithOnBeforeSend(func(*wire.CommandResponse) { order = append(order, "before_send") }),
		WithOnAfterSend(func() { order = append(order, "after_send") }),
	)

	r := svc.Execute(wire.NewHget("t", "missing"))
	drainOne(t, r)
	svc.NotifyAfterSend()

	assert.Equal(t, []string{"received", "executed", "before_send", "after_send"}, order)
}

func TestSubscribePublishUnsubscribe(t *testing.T) {
	svc := New()

	subResult := svc.Execute(wire.NewSubscribe("lobby"))
	idResp := drainOne(t, subResult)
	require.Len(t, idResp.Values, 1)
	id := uint32(idResp.Values[0].Int)
	assert.NotZero(t, id)

	pubResult := svc.Execute(wire.NewPublish("lobby", []wire.Value{wire.NewIntValue(1), wire.NewIntValue(2), wire.NewStringValue("hello")}))
	ack := drainOne(t, pubResult)
	assert.EqualValues(t, 200, ack.Status)
	assertClosed(t, pubResult)

	msg := drainOne(t, subResult)
	require.Len(t, msg.Values, 3)
	assert.EqualValues(t, 1, msg.Values[0].Int)
	assert.EqualValues(t, 2, msg.Values[1].Int)
	assert.Equal(t, "hello", msg.Values[2].Str)

	unsubResult := svc.Execute(wire.NewUnsubscribe("lobby", id))
	drainOne(t, unsubResult)

	select {
	case _, ok := <-subResult.Responses:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected subscriber channel to close after unsubscribe")
	}
}

func TestSubscribeCleanupUnsubscribesOnStreamClose(t *testing.T) {
	svc := New()
	subResult := svc.Execute(wire.NewSubscribe("topic"))
	drainOne(t, subResult)

	subResult.Cleanup()

	pubResult := svc.Execute(wire.NewPublish("topic", []wire.Value{wire.NewIntValue(1)}))
	drainOne(t, pubResult)

	select {
	case _, ok := <-subResult.Responses:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected channel closed after Cleanup")
	}
}
