package graph

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// pairLock serializes graph mutations per unordered user pair, so the
// check-then-mutate sequences of follow/unfollow/block/unblock cannot
// interleave for the same two users.
type pairLock struct {
	mu    sync.Mutex
	locks map[string]*pairEntry
}

type pairEntry struct {
	mu   sync.Mutex
	refs int
}

func newPairLock() *pairLock {
	return &pairLock{locks: make(map[string]*pairEntry)}
}

// pairKey is order-independent: (a,b) and (b,a) map to the same key
func pairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if strings.Compare(x, y) > 0 {
		x, y = y, x
	}
	return x + "|" + y
}

// Lock acquires the lock for the unordered pair {a,b} and returns the unlock
// function. Entries are reference counted and removed once unused.
func (p *pairLock) Lock(a, b uuid.UUID) func() {
	key := pairKey(a, b)

	p.mu.Lock()
	entry, ok := p.locks[key]
	if !ok {
		entry = &pairEntry{}
		p.locks[key] = entry
	}
	entry.refs++
	p.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		p.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}
