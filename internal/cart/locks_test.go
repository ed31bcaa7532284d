package cart

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomerLocksSerializeSameCustomer(t *testing.T) {
	locks := newCustomerLocks()

	const workers = 16
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := locks.Lock(42)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestCustomerLocksEvictIdleEntries(t *testing.T) {
	locks := newCustomerLocks()

	unlockA := locks.Lock(1)
	unlockB := locks.Lock(2)

	locks.mu.Lock()
	held := len(locks.locks)
	locks.mu.Unlock()
	assert.Equal(t, 2, held)

	unlockA()
	unlockB()

	locks.mu.Lock()
	remaining := len(locks.locks)
	locks.mu.Unlock()
	assert.Zero(t, remaining, "idle lock entries should be evicted")
}

func TestCustomerLocksKeepContendedEntry(t *testing.T) {
	locks := newCustomerLocks()

	unlock := locks.Lock(7)

	acquired := make(chan struct{})
	go func() {
		second := locks.Lock(7)
		close(acquired)
		second()
	}()

	// the waiter has registered itself, so releasing the first hold must
	// not drop the entry out from under it
	for {
		locks.mu.Lock()
		registered := locks.locks[7] != nil && locks.locks[7].refs == 2
		locks.mu.Unlock()
		if registered {
			break
		}
		runtime.Gosched()
	}

	unlock()
	<-acquired
}
