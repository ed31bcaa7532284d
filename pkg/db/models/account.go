package models

import (
	"time"

	"github.com/libreria-labs/libreria-backend/pkg/enums"
)

// Account is a storefront identity: either a client who owns a cart or an
// administrator who manages the catalog.
type Account struct {
	ID           int64             `gorm:"column:id;primaryKey"`
	Email        string            `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	LegalName    string            `gorm:"column:legal_name;not null"`
	Address      string            `gorm:"column:address"`
	TaxID        string            `gorm:"column:tax_id"`
	Phone        *string           `gorm:"column:phone"`
	Role         enums.AccountRole `gorm:"column:role;not null"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time        `gorm:"column:last_login_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
