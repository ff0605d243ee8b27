package driver

import (
	"sync/atomic"
)

// pendingTable keeps in-flight entries reachable by correlation id. Only the backend loop
// goroutine mutates it, size may be read from anywhere.
type pendingTable[E any] struct {
	entries map[uint64]E
	size    atomic.Int64
}

func newPendingTable[E any](capacity int) *pendingTable[E] {
	return &pendingTable[E]{
		entries: make(map[uint64]E, capacity),
	}
}

func (t *pendingTable[E]) add(id uint64, e E) {
	if _, exists := t.entries[id]; !exists {
		t.size.Add(1)
	}
	t.entries[id] = e
}

func (t *pendingTable[E]) get(id uint64) (e E, ok bool) {
	e, ok = t.entries[id]
	return
}

func (t *pendingTable[E]) take(id uint64) (e E, ok bool) {
	if e, ok = t.entries[id]; ok {
		delete(t.entries, id)
		t.size.Add(-1)
	}
	return
}

func (t *pendingTable[E]) len() int {
	return int(t.size.Load())
}

func (t *pendingTable[E]) each(fn func(id uint64, e E)) {
	for id, e := range t.entries {
		fn(id, e)
	}
}

// drain removes every entry, calling fn on each.
func (t *pendingTable[E]) drain(fn func(id uint64, e E)) {
	for id, e := range t.entries {
		delete(t.entries, id)
		t.size.Add(-1)
		fn(id, e)
	}
}
