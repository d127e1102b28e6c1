// Package locking provides in-process mutual exclusion keyed by entity ID.
// Round and appearance transitions mutate shared aggregate fields; at most one
// transition may be in flight per entity.
package locking

import "sync"

// KeyedMutex serializes operations sharing a key. Mutexes are retained for
// the life of the process; the key space here (round and appearance IDs of a
// live convention) is small and bounded.
type KeyedMutex struct {
	locks sync.Map // string -> *sync.Mutex
}

// NewKeyedMutex returns an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for key and returns its unlock function.
func (m *KeyedMutex) Lock(key string) func() {
	v, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
