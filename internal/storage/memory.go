package storage

import (
	"sync"

	"github.com/sunnywhy/kv/internal/wire"
)

// MemTable is the in-memory Storage engine (spec §4.5, §6.5). It is
// grounded on the same RWMutex-guarded map idiom the registry uses for
// service bookkeeping: one lock per table rather than one global lock,
// so traffic against different tables never contends.
type MemTable struct {
	mu     sync.RWMutex
	tables map[string]*table
}

type table struct {
	mu   sync.RWMutex
	data map[string]wire.Value
}

// NewMemTable returns an empty engine. Tables come into existence on
// first reference, so an empty engine already answers Get/Contains/Del
// against any table name with a clean miss.
func NewMemTable() *MemTable {
	return &MemTable{tables: make(map[string]*table)}
}

func (m *MemTable) getOrCreate(name string) *table {
	m.mu.RLock()
	t, ok := m.tables[name]
	m.mu.RUnlock()
	if ok {
		return t
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[name]; ok {
		return t
	}
	t = &table{data: make(map[string]wire.Value)}
	m.tables[name] = t
	return t
}

func (m *MemTable) Get(tableName, key string) (wire.Value, bool, error) {
	t := m.getOrCreate(tableName)
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.data[key]
	return v, ok, nil
}

func (m *MemTable) Set(tableName, key string, value wire.Value) (wire.Value, bool, error) {
	t := m.getOrCreate(tableName)
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, had := t.data[key]
	t.data[key] = value
	return prev, had, nil
}

func (m *MemTable) Contains(tableName, key string) (bool, error) {
	t := m.getOrCreate(tableName)
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.data[key]
	return ok, nil
}

func (m *MemTable) Del(tableName, key string) (wire.Value, bool, error) {
	t := m.getOrCreate(tableName)
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, had := t.data[key]
	delete(t.data, key)
	return prev, had, nil
}

// GetAll copies out every pair under a read lock so the snapshot it
// returns is never invalidated by a later writer.
func (m *MemTable) GetAll(tableName string) ([]wire.KvPair, error) {
	t := m.getOrCreate(tableName)
	t.mu.RLock()
	defer t.mu.RUnlock()
	pairs := make([]wire.KvPair, 0, len(t.data))
	for k, v := range t.data {
		pairs = append(pairs, wire.NewKvPair(k, v))
	}
	return pairs, nil
}

// GetIter snapshots the table the same way GetAll does and hands back
// an iterator over the copy, so it observes none of the mutations that
// happen after the call returns.
func (m *MemTable) GetIter(tableName string) (Iterator, error) {
	pairs, err := m.GetAll(tableName)
	if err != nil {
		return nil, err
	}
	return &sliceIterator{pairs: pairs}, nil
}

type sliceIterator struct {
	pairs []wire.KvPair
	pos   int
}

func (it *sliceIterator) Next() (wire.KvPair, bool) {
	if it.pos >= len(it.pairs) {
		return wire.KvPair{}, false
	}
	p := it.pairs[it.pos]
	it.pos++
	return p, true
}

var _ Storage = (*MemTable)(nil)
