package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the immutable record of a completed purchase. Billing fields and
// line items are snapshots taken at issuance; later catalog or account edits
// never alter an invoice.
type Invoice struct {
	ID             int64           `gorm:"column:id;primaryKey"`
	Number         string          `gorm:"column:number;not null;uniqueIndex"`
	CustomerID     int64           `gorm:"column:customer_id;not null;index"`
	IssuedAt       time.Time       `gorm:"column:issued_at;not null"`
	BuyerLegalName string          `gorm:"column:buyer_legal_name;not null"`
	BuyerAddress   string          `gorm:"column:buyer_address;not null"`
	BuyerEmail     string          `gorm:"column:buyer_email;not null"`
	BuyerTaxID     string          `gorm:"column:buyer_tax_id;not null"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(14,4);not null"`
	Tax            decimal.Decimal `gorm:"column:tax;type:numeric(14,4);not null"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric(14,4);not null"`
	Lines          []InvoiceLine   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
