package accounts

import (
	"time"

	"github.com/libreria-labs/libreria-backend/pkg/db/models"
	"github.com/libreria-labs/libreria-backend/pkg/enums"
)

// AccountDTO is the transport shape that omits the credential hash.
type AccountDTO struct {
	ID          int64             `json:"id"`
	Email       string            `json:"email"`
	LegalName   string            `json:"legal_name"`
	Address     string            `json:"address"`
	TaxID       string            `json:"tax_id"`
	Phone       *string           `json:"phone,omitempty"`
	Role        enums.AccountRole `json:"role"`
	IsActive    bool              `json:"is_active"`
	LastLoginAt *time.Time        `json:"last_login_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TokenPair carries a freshly minted access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is the payload returned on successful authentication.
type LoginResult struct {
	TokenPair
	Account *AccountDTO `json:"account"`
}

// FromModel maps the persistence model onto the transport shape.
func FromModel(a *models.Account) *AccountDTO {
	if a == nil {
		return nil
	}
	return &AccountDTO{
		ID:          a.ID,
		Email:       a.Email,
		LegalName:   a.LegalName,
		Address:     a.Address,
		TaxID:       a.TaxID,
		Phone:       a.Phone,
		Role:        a.Role,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
