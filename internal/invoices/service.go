package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/libreria-labs/libreria-backend/internal/cart"
	"github.com/libreria-labs/libreria-backend/internal/identity"
	"github.com/libreria-labs/libreria-backend/pkg/db/models"
	pkgerrors "github.com/libreria-labs/libreria-backend/pkg/errors"
	"github.com/libreria-labs/libreria-backend/pkg/logger"
)

type cartEngine interface {
	GetCart(ctx context.Context, customerID int64) (*cart.CartDTO, error)
	Clear(ctx context.Context, customerID int64) error
}

type bookLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Book, error)
}

// BillingInput carries the buyer fields snapshotted onto the invoice.
type BillingInput struct {
	LegalName string
	Address   string
	Email     string
	TaxID     string
}

// Service exposes invoice issuance and retrieval.
type Service interface {
	IssueInvoice(ctx context.Context, customerID int64, billing BillingInput) (*InvoiceDTO, error)
	GetInvoice(ctx context.Context, invoiceID int64) (*InvoiceDTO, error)
	RemoveInvoice(ctx context.Context, invoiceID int64) error
	ListForCustomer(ctx context.Context, customerID int64) ([]InvoiceDTO, error)
}

type service struct {
	repo      *Repository
	carts     cartEngine
	books     bookLoader
	allocator identity.Allocator
	logg      *logger.Logger
}

// NewService builds the invoice generator backed by the provided stack.
func NewService(repo *Repository, carts cartEngine, books bookLoader, allocator identity.Allocator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart engine required")
	}
	if books == nil {
		return nil, fmt.Errorf("book loader required")
	}
	if allocator == nil {
		return nil, fmt.Errorf("identity allocator required")
	}
	return &service{
		repo:      repo,
		carts:     carts,
		books:     books,
		allocator: allocator,
		logg:      logg,
	}, nil
}

// IssueInvoice freezes the customer's current cart into an immutable invoice
// and then clears the cart. The two steps are sequential, not atomic: if
// clearing fails after the invoice is persisted, the invoice stands and the
// stale cart is reported through the returned snapshot on the next read.
func (s *service) IssueInvoice(ctx context.Context, customerID int64, billing BillingInput) (*InvoiceDTO, error) {
	if customerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if strings.TrimSpace(billing.LegalName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "legal name is required")
	}
	if strings.TrimSpace(billing.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	snapshot, err := s.carts.GetCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items in cart")
	}

	lines := make([]models.InvoiceLine, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		book, err := s.books.FindByID(ctx, item.BookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
		}
		lines = append(lines, models.InvoiceLine{
			BookID:    book.ID,
			Title:     book.Title,
			ISBN:      book.ISBN,
			Position:  item.Index,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}

	invoice := &models.Invoice{
		ID:             s.allocator.NextID(),
		Number:         s.allocator.NextInvoiceNumber(),
		CustomerID:     customerID,
		IssuedAt:       time.Now().UTC(),
		BuyerLegalName: strings.TrimSpace(billing.LegalName),
		BuyerAddress:   strings.TrimSpace(billing.Address),
		BuyerEmail:     strings.TrimSpace(billing.Email),
		BuyerTaxID:     strings.TrimSpace(billing.TaxID),
		Subtotal:       snapshot.Subtotal,
		Tax:            snapshot.Tax,
		Total:          snapshot.Total,
		Lines:          lines,
	}

	created, err := s.repo.Create(ctx, invoice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert invoice")
	}

	if err := s.carts.Clear(ctx, customerID); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("invoice %s issued but cart clear failed: %v", created.Number, err))
		}
	}

	return NewInvoiceDTO(created), nil
}

// GetInvoice loads a single invoice.
func (s *service) GetInvoice(ctx context.Context, invoiceID int64) (*InvoiceDTO, error) {
	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return NewInvoiceDTO(invoice), nil
}

// RemoveInvoice deletes the invoice as a whole.
func (s *service) RemoveInvoice(ctx context.Context, invoiceID int64) error {
	deleted, err := s.repo.Delete(ctx, invoiceID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete invoice")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}
	return nil
}

// ListForCustomer returns the customer's invoices in issuance order.
func (s *service) ListForCustomer(ctx context.Context, customerID int64) ([]InvoiceDTO, error) {
	if customerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list invoices")
	}
	dtos := make([]InvoiceDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewInvoiceDTO(&rows[i]))
	}
	return dtos, nil
}
