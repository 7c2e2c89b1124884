package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunnywhy/kv/internal/wire"
)

func TestGetOnEmptyTableMisses(t *testing.T) {
	m := NewMemTable()
	_, ok, err := m.Get("t", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	m := NewMemTable()
	prev, had, err := m.Set("t", "k", wire.NewStringValue("v1"))
	require.NoError(t, err)
	assert.False(t, had)
	assert.True(t, prev.IsNull())

	v, ok, err := m.Get("t", "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", v.Str)

	prev, had, err = m.Set("t", "k", wire.NewStringValue("v2"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "v1", prev.Str)
}

func TestContains(t *testing.T) {
	m := NewMemTable()
	ok, err := m.Contains("t", "k")
	require.NoError(t, err)
	assert.False(t, ok)

	m.Set("t", "k", wire.NewIntValue(1))
	ok, err = m.Contains("t", "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelIsIdempotent(t *testing.T) {
	m := NewMemTable()
	m.Set("t", "k", wire.NewBoolValue(true))

	prev, had, err := m.Del("t", "k")
	require.NoError(t, err)
	assert.True(t, had)
	assert.True(t, prev.Bool)

	prev, had, err = m.Del("t", "k")
	require.NoError(t, err)
	assert.False(t, had)
	assert.True(t, prev.IsNull())

	ok, _ := m.Contains("t", "k")
	assert.False(t, ok)
}

func TestGetAllReturnsEverySetPair(t *testing.T) {
	m := NewMemTable()
	m.Set("t", "a", wire.NewIntValue(1))
	m.Set("t", "b", wire.NewIntValue(2))
	m.Set("other", "c", wire.NewIntValue(3))

	pairs, err := m.GetAll("t")
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	byKey := map[string]wire.Value{}
	for _, p := range pairs {
		byKey[p.Key] = p.Value
	}
	assert.Equal(t, int64(1), byKey["a"].Int)
	assert.Equal(t, int64(2), byKey["b"].Int)
}

func TestGetIterIsASnapshot(t *testing.T) {
	m := NewMemTable()
	m.Set("t", "a", wire.NewIntValue(1))
	m.Set("t", "b", wire.NewIntValue(2))

	it, err := m.GetIter("t")
	require.NoError(t, err)

	m.Set("t", "c", wire.NewIntValue(3))
	m.Del("t", "a")

	seen := map[string]bool{}
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		seen[p.Key] = true
	}
	assert.Len(t, seen, 2)
	assert.True(t, seen["a"])
	assert.True(t, seen["b"])
	assert.False(t, seen["c"])

	_, ok := it.Next()
	assert.False(t, ok)
}

func TestTablesAreIndependent(t *testing.T) {
	m := NewMemTable()
	m.Set("t1", "k", wire.NewStringValue("one"))
	m.Set("t2", "k", wire.NewStringValue("two"))

	v1, _, _ := m.Get("t1", "k")
	v2, _, _ := m.Get("t2", "k")
	assert.Equal(t, "one", v1.Str)
	assert.Equal(t, "two", v2.Str)
}
