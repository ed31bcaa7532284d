package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (book, quantity) line inside a cart. Position is the
// display/addressing order; the engine compacts positions when a line is
// removed. UnitPrice and LineTotal reflect the book's price at the time of
// the last mutation of this line.
type CartItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CartID    int64           `gorm:"column:cart_id;not null;index"`
	BookID    int64           `gorm:"column:book_id;not null"`
	Position  int             `gorm:"column:position;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(14,4);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
