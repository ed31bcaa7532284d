package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Book represents a catalog listing. Identifiers are issued by the identity
// allocator, never by the database.
type Book struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	ISBN      string          `gorm:"column:isbn;not null;uniqueIndex"`
	Title     string          `gorm:"column:title;not null"`
	Authors   pq.StringArray  `gorm:"column:authors;type:text[]"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock     int             `gorm:"column:stock;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
