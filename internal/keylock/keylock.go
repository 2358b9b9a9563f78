// Package keylock provides mutual exclusion keyed by an arbitrary comparable
// value, with mutexes created lazily on first use.
package keylock

import "sync"

// Map is a thread-safe set of per-key mutexes. Mutexes are never removed, so
// a Map should be scoped to a bounded key space such as one run.
type Map[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*sync.Mutex
}

// New creates an empty Map.
func New[K comparable]() *Map[K] {
	return &Map[K]{locks: make(map[K]*sync.Mutex)}
}

func (m *Map[K]) get(key K) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks == nil {
		m.locks = make(map[K]*sync.Mutex)
	}
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	return l
}

// Lock acquires the mutex for key and returns its release function.
func (m *Map[K]) Lock(key K) (unlock func()) {
	l := m.get(key)
	l.Lock()
	return l.Unlock
}
