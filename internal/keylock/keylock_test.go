package keylock_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"dirsort/internal/keylock"
)

func TestSameKeyIsExclusive(t *testing.T) {
	m := keylock.New[string]()
	var inside, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("images")
			defer unlock()
			n := inside.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			inside.Add(-1)
		}()
	}
	wg.Wait()
	if peak.Load() != 1 {
		t.Fatalf("expected at most one holder, saw %d", peak.Load())
	}
}

func TestDistinctKeysDoNotBlock(t *testing.T) {
	var m keylock.Map[string]
	unlockA := m.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := m.Lock("b")
		unlock()
		close(done)
	}()
	<-done
}
