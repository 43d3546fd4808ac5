package tablelock

import (
	"sync"
)

// KeyedMutex serializes work per table id. Two bets against the same pot must
// not interleave their read-modify-write; operations on different tables stay
// fully independent. Entries are reference counted so the map does not grow
// with every table ever seen.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[string]*lockEntry),
	}
}

func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	entry := k.entries[key]
	if entry == nil {
		entry = &lockEntry{}
		k.entries[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	entry := k.entries[key]
	if entry == nil {
		k.mu.Unlock()
		panic("tablelock: unlock of unheld key " + key)
	}
	entry.refs--
	if entry.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	entry.mu.Unlock()
}
