package service

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// keyedLocks hands out one mutex per entity id so mutations of the same
// sequence are serialized while disjoint sequences proceed in parallel.
// Mutexes are never evicted; the set of live boards and columns is small
// enough that this does not matter.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *keyedLocks) get(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Lock acquires the mutex for a single id
func (l *keyedLocks) Lock(id uuid.UUID) {
	l.get(id).Lock()
}

// Unlock releases the mutex for a single id
func (l *keyedLocks) Unlock(id uuid.UUID) {
	l.get(id).Unlock()
}

// LockPair acquires the mutexes for two ids in a deterministic order so two
// cross-column moves touching the same columns can never deadlock. Equal ids
// are locked once.
func (l *keyedLocks) LockPair(a, b uuid.UUID) {
	if a == b {
		l.Lock(a)
		return
	}
	if strings.Compare(a.String(), b.String()) > 0 {
		a, b = b, a
	}
	l.Lock(a)
	l.Lock(b)
}

// UnlockPair releases the mutexes acquired by LockPair
func (l *keyedLocks) UnlockPair(a, b uuid.UUID) {
	if a == b {
		l.Unlock(a)
		return
	}
	l.Unlock(a)
	l.Unlock(b)
}
