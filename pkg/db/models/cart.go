package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart holds the pending selections of a single customer. One cart per
// customer; totals are recomputed by the cart engine after every mutation and
// are never left stale.
type Cart struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	CustomerID int64           `gorm:"column:customer_id;not null;uniqueIndex"`
	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:numeric(14,4);not null"`
	Tax        decimal.Decimal `gorm:"column:tax;type:numeric(14,4);not null"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(14,4);not null"`
	Items      []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
