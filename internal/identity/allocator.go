package identity

import (
	"fmt"
	"sync/atomic"
)

// InvoiceNumberPrefix is the human-facing prefix applied to invoice ordinals.
const InvoiceNumberPrefix = "F-"

// Allocator issues unique identifiers shared across books, accounts, and invoices.
// Identifiers are strictly increasing for the lifetime of the process, so a
// deleted record's id or invoice number is never reissued.
type Allocator interface {
	NextID() int64
	NextInvoiceNumber() string
}

type counterAllocator struct {
	counter atomic.Int64
}

// NewAllocator builds an allocator whose first issued id is seed+1.
// Seed with the maximum id observed across all persisted records so that
// bulk-loading existing data never produces a collision.
func NewAllocator(seed int64) Allocator {
	a := &counterAllocator{}
	if seed > 0 {
		a.counter.Store(seed)
	}
	return a
}

func (a *counterAllocator) NextID() int64 {
	return a.counter.Add(1)
}

func (a *counterAllocator) NextInvoiceNumber() string {
	return fmt.Sprintf("%s%d", InvoiceNumberPrefix, a.NextID())
}
