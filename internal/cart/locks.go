package cart

import "sync"

type customerLock struct {
	mu   sync.Mutex
	refs int
}

// customerLocks serializes cart mutations per customer. Two concurrent
// mutations on the same cart must not interleave their read-modify-write of
// the item sequence or totals. Entries are reference counted and dropped
// once the last holder unlocks, so the map stays bounded by concurrency
// rather than by the number of customers ever seen.
type customerLocks struct {
	mu    sync.Mutex
	locks map[int64]*customerLock
}

func newCustomerLocks() *customerLocks {
	return &customerLocks{locks: make(map[int64]*customerLock)}
}

// Lock acquires the mutex for the customer and returns the unlock func.
func (c *customerLocks) Lock(customerID int64) func() {
	c.mu.Lock()
	entry, ok := c.locks[customerID]
	if !ok {
		entry = &customerLock{}
		c.locks[customerID] = entry
	}
	entry.refs++
	c.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		c.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(c.locks, customerID)
		}
		c.mu.Unlock()
	}
}
