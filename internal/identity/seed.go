package identity

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// idTables are the tables whose primary keys draw from the shared counter.
// Carts are included so a reseed never reissues a live cart id.
var idTables = []string{"books", "accounts", "carts", "invoices"}

// MaxObservedID returns the highest id currently persisted across all tables
// served by the shared allocator. Returns 0 on an empty dataset.
func MaxObservedID(ctx context.Context, db *gorm.DB) (int64, error) {
	var max int64
	for _, table := range idTables {
		var current int64
		query := fmt.Sprintf("SELECT COALESCE(MAX(id), 0) FROM %s", table)
		if err := db.WithContext(ctx).Raw(query).Scan(&current).Error; err != nil {
			return 0, fmt.Errorf("max id for %s: %w", table, err)
		}
		if current > max {
			max = current
		}
	}
	return max, nil
}

// NewSeededAllocator constructs an allocator seeded from the persisted dataset.
func NewSeededAllocator(ctx context.Context, db *gorm.DB) (Allocator, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	seed, err := MaxObservedID(ctx, db)
	if err != nil {
		return nil, err
	}
	return NewAllocator(seed), nil
}
