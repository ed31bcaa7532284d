package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/libreria-labs/libreria-backend/internal/identity"
	"github.com/libreria-labs/libreria-backend/pkg/db"
	"github.com/libreria-labs/libreria-backend/pkg/db/models"
	pkgerrors "github.com/libreria-labs/libreria-backend/pkg/errors"
	"github.com/libreria-labs/libreria-backend/pkg/pagination"
)

// Service exposes catalog management and browsing operations.
type Service interface {
	CreateBook(ctx context.Context, input CreateBookInput) (*BookDTO, error)
	UpdateBook(ctx context.Context, bookID int64, input UpdateBookInput) (*BookDTO, error)
	DeleteBook(ctx context.Context, bookID int64) error
	GetBook(ctx context.Context, bookID int64) (*BookDTO, error)
	ListBooks(ctx context.Context, input ListBooksInput) (*BookListResult, error)
}

// CreateBookInput holds the validated payload to create a listing.
type CreateBookInput struct {
	ISBN    string
	Title   string
	Authors []string
	Price   decimal.Decimal
	Stock   int
}

// UpdateBookInput holds optional mutation values for a listing.
type UpdateBookInput struct {
	Title   *string
	Authors *[]string
	Price   *decimal.Decimal
	Stock   *int
}

// ListBooksInput captures browsing filters.
type ListBooksInput struct {
	Pagination pagination.Params
	Query      string
}

type service struct {
	repo      *Repository
	allocator identity.Allocator
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, allocator identity.Allocator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if allocator == nil {
		return nil, fmt.Errorf("identity allocator required")
	}
	return &service{repo: repo, allocator: allocator}, nil
}

// CreateBook registers a new listing with an allocator-issued identity.
func (s *service) CreateBook(ctx context.Context, input CreateBookInput) (*BookDTO, error) {
	isbn := strings.TrimSpace(input.ISBN)
	if isbn == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "isbn is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	book := &models.Book{
		ID:      s.allocator.NextID(),
		ISBN:    isbn,
		Title:   title,
		Authors: input.Authors,
		Price:   input.Price,
		Stock:   input.Stock,
	}

	created, err := s.repo.CreateBook(ctx, book)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "isbn already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert book")
	}
	return NewBookDTO(created), nil
}

// UpdateBook mutates an existing listing. Price edits never touch past invoices.
func (s *service) UpdateBook(ctx context.Context, bookID int64, input UpdateBookInput) (*BookDTO, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}

	applyUpdateToBook(book, input)
	updated, err := s.repo.UpdateBook(ctx, book)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update book")
	}
	return NewBookDTO(updated), nil
}

// DeleteBook removes the listing. Carts referencing it will fail lookups on
// their next mutation; invoices keep their snapshots.
func (s *service) DeleteBook(ctx context.Context, bookID int64) error {
	deleted, err := s.repo.DeleteBook(ctx, bookID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete book")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
	}
	return nil
}

// GetBook loads a single listing.
func (s *service) GetBook(ctx context.Context, bookID int64) (*BookDTO, error) {
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}
	return NewBookDTO(book), nil
}

// ListBooks returns a page of listings in insertion order.
func (s *service) ListBooks(ctx context.Context, input ListBooksInput) (*BookListResult, error) {
	rows, nextCursor, err := s.repo.ListBooks(ctx, bookListQuery{
		Pagination: input.Pagination,
		Query:      input.Query,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list books")
	}

	dtos := make([]BookDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewBookDTO(&rows[i]))
	}
	return &BookListResult{Books: dtos, NextCursor: nextCursor}, nil
}

func applyUpdateToBook(book *models.Book, input UpdateBookInput) {
	if input.Title != nil {
		book.Title = strings.TrimSpace(*input.Title)
	}
	if input.Authors != nil {
		book.Authors = append([]string(nil), *input.Authors...)
	}
	if input.Price != nil {
		book.Price = *input.Price
	}
	if input.Stock != nil {
		book.Stock = *input.Stock
	}
}
