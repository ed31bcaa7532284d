package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/libreria-labs/libreria-backend/pkg/db/models"
)

// BookDTO is the serializable projection of a catalog listing.
type BookDTO struct {
	ID        int64           `json:"id"`
	ISBN      string          `json:"isbn"`
	Title     string          `json:"title"`
	Authors   []string        `json:"authors"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BookListResult carries one page of catalog listings.
type BookListResult struct {
	Books      []BookDTO `json:"books"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// NewBookDTO maps the persistence model onto the API projection.
func NewBookDTO(book *models.Book) *BookDTO {
	if book == nil {
		return nil
	}
	return &BookDTO{
		ID:        book.ID,
		ISBN:      book.ISBN,
		Title:     book.Title,
		Authors:   append([]string(nil), book.Authors...),
		Price:     book.Price,
		Stock:     book.Stock,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	}
}
