package graph

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestPairKey_orderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if pairKey(a, b) != pairKey(b, a) {
		t.Error("pair key must be order independent")
	}
	if pairKey(a, b) == pairKey(a, a) {
		t.Error("distinct pairs must have distinct keys")
	}
}

func TestPairLock_mutualExclusion(t *testing.T) {
	p := newPairLock()
	a, b := uuid.New(), uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := p.Lock(a, b)
			defer unlock()
			counter++ // data race without mutual exclusion
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100 increments, got %d", counter)
	}
}

func TestPairLock_entriesReleased(t *testing.T) {
	p := newPairLock()
	a, b := uuid.New(), uuid.New()

	unlock := p.Lock(a, b)
	unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.locks) != 0 {
		t.Errorf("lock map should be empty after release, has %d entries", len(p.locks))
	}
}

func TestPairLock_independentPairsDoNotBlock(t *testing.T) {
	p := newPairLock()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	unlockAB := p.Lock(a, b)
	defer unlockAB()

	done := make(chan struct{})
	go func() {
		unlockAC := p.Lock(a, c)
		unlockAC()
		close(done)
	}()

	<-done // hangs here if {a,c} were serialized behind {a,b}
}
