package models

import "github.com/shopspring/decimal"

// InvoiceLine is a deep copy of a cart line at issuance time. BookID is kept
// for traceability only; title, isbn, and unit price are denormalized so the
// line survives catalog edits and deletions.
type InvoiceLine struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	InvoiceID int64           `gorm:"column:invoice_id;not null;index"`
	BookID    int64           `gorm:"column:book_id;not null"`
	Title     string          `gorm:"column:title;not null"`
	ISBN      string          `gorm:"column:isbn;not null"`
	Position  int             `gorm:"column:position;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(14,4);not null"`
}
