package borrowing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookLocks_SerializesSameBook(t *testing.T) {
	locks := newBookLocks()

	const workers = 20
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("b1")
			defer unlock()
			// ロックが効いていなければ data race になる
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestBookLocks_IndependentBooksDoNotBlock(t *testing.T) {
	locks := newBookLocks()

	unlockA := locks.lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("b")
		unlockB()
		close(done)
	}()

	// aを握ったままでもbは取れる
	<-done
	unlockA()
}

func TestBookLocks_EntriesAreReclaimed(t *testing.T) {
	locks := newBookLocks()

	unlock := locks.lock("b1")
	locks.mu.Lock()
	require.Len(t, locks.entries, 1)
	locks.mu.Unlock()

	unlock()

	locks.mu.Lock()
	assert.Empty(t, locks.entries)
	locks.mu.Unlock()
}
