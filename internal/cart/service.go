package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/libreria-labs/libreria-backend/internal/identity"
	"github.com/libreria-labs/libreria-backend/pkg/db/models"
	pkgerrors "github.com/libreria-labs/libreria-backend/pkg/errors"
)

// TaxRate is the fixed surcharge applied to every cart subtotal.
var TaxRate = decimal.New(21, -2)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type bookLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Book, error)
}

// Service is the cart engine. All mutations recompute the cart's subtotal,
// tax, and total before returning; totals are never left stale. Mutations on
// the same customer are serialized internally.
type Service interface {
	AddItem(ctx context.Context, customerID, bookID int64, quantity int) (*CartDTO, error)
	SetItemQuantity(ctx context.Context, customerID int64, index, quantity int) (*CartDTO, error)
	GetCart(ctx context.Context, customerID int64) (*CartDTO, error)
	Clear(ctx context.Context, customerID int64) error
}

type service struct {
	repo      *Repository
	tx        txRunner
	books     bookLoader
	allocator identity.Allocator
	locks     *customerLocks
}

// NewService builds the cart engine backed by the provided stack.
func NewService(repo *Repository, tx txRunner, books bookLoader, allocator identity.Allocator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if books == nil {
		return nil, fmt.Errorf("book loader required")
	}
	if allocator == nil {
		return nil, fmt.Errorf("identity allocator required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		books:     books,
		allocator: allocator,
		locks:     newCustomerLocks(),
	}, nil
}

// AddItem puts quantity units of the book into the customer's cart. If the
// book is already present its quantity accumulates; no cart ever holds two
// lines for the same book.
func (s *service) AddItem(ctx context.Context, customerID, bookID int64, quantity int) (*CartDTO, error) {
	if customerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
	}

	unlock := s.locks.Lock(customerID)
	defer unlock()

	var snapshot *CartDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := s.resolveOrCreate(ctx, txRepo, customerID)
		if err != nil {
			return err
		}

		found := false
		for i := range cart.Items {
			if cart.Items[i].BookID == bookID {
				cart.Items[i].Quantity += quantity
				cart.Items[i].UnitPrice = book.Price
				cart.Items[i].LineTotal = book.Price.Mul(decimal.NewFromInt(int64(cart.Items[i].Quantity)))
				found = true
				break
			}
		}
		if !found {
			cart.Items = append(cart.Items, models.CartItem{
				CartID:    cart.ID,
				BookID:    bookID,
				Position:  len(cart.Items),
				Quantity:  quantity,
				UnitPrice: book.Price,
				LineTotal: book.Price.Mul(decimal.NewFromInt(int64(quantity))),
			})
		}

		if err := s.persist(ctx, txRepo, cart); err != nil {
			return err
		}
		snapshot = NewCartDTO(cart)
		return nil
	})
	if err != nil {
		return nil, asEngineError(err, "add cart item")
	}
	return snapshot, nil
}

// SetItemQuantity replaces the quantity of the line at the given index. A
// quantity of zero removes the line and shifts later indices down by one, so
// callers must not cache indices across this call. The line's total is
// recomputed with the book's current price.
func (s *service) SetItemQuantity(ctx context.Context, customerID int64, index, quantity int) (*CartDTO, error) {
	if customerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity below zero")
	}

	unlock := s.locks.Lock(customerID)
	defer unlock()

	var snapshot *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := s.resolveOrCreate(ctx, txRepo, customerID)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(cart.Items) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no cart item at the given index")
		}

		if quantity == 0 {
			cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
			for i := range cart.Items {
				cart.Items[i].Position = i
			}
		} else {
			item := &cart.Items[index]
			book, err := s.books.FindByID(ctx, item.BookID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "book not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load book")
			}
			item.Quantity = quantity
			item.UnitPrice = book.Price
			item.LineTotal = book.Price.Mul(decimal.NewFromInt(int64(quantity)))
		}

		if err := s.persist(ctx, txRepo, cart); err != nil {
			return err
		}
		snapshot = NewCartDTO(cart)
		return nil
	})
	if err != nil {
		return nil, asEngineError(err, "set cart item quantity")
	}
	return snapshot, nil
}

// GetCart returns the customer's cart snapshot. A customer who has never
// mutated a cart gets an empty snapshot with zeroed totals; this never fails
// for a valid customer.
func (s *service) GetCart(ctx context.Context, customerID int64) (*CartDTO, error) {
	if customerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	cart, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmptyCartDTO(customerID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return NewCartDTO(cart), nil
}

// Clear empties the customer's cart and zeroes its totals. Idempotent.
func (s *service) Clear(ctx context.Context, customerID int64) error {
	if customerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	unlock := s.locks.Lock(customerID)
	defer unlock()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := s.resolveOrCreate(ctx, txRepo, customerID)
		if err != nil {
			return err
		}
		cart.Items = nil
		return s.persist(ctx, txRepo, cart)
	})
	if err != nil {
		return asEngineError(err, "clear cart")
	}
	return nil
}

// resolveOrCreate is the explicit upsert at the start of every engine entry
// point: the customer's cart is created on first mutation.
func (s *service) resolveOrCreate(ctx context.Context, repo *Repository, customerID int64) (*models.Cart, error) {
	cart, err := repo.FindByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	cart = &models.Cart{
		ID:         s.allocator.NextID(),
		CustomerID: customerID,
		Subtotal:   decimal.Zero,
		Tax:        decimal.Zero,
		Total:      decimal.Zero,
	}
	if _, err := repo.Create(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create cart")
	}
	return cart, nil
}

// persist rewrites the cart's lines and totals as one unit.
func (s *service) persist(ctx context.Context, repo *Repository, cart *models.Cart) error {
	cart.Subtotal, cart.Tax, cart.Total = computeTotals(cart.Items)

	if err := repo.ReplaceItems(ctx, cart.ID, cart.Items); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace cart items")
	}
	if err := repo.SaveTotals(ctx, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save cart totals")
	}
	return nil
}

// computeTotals derives the cart totals from the stored line totals:
// subtotal is their sum, tax is subtotal times TaxRate, total is the sum of
// both. Decimal arithmetic keeps the invariants exact.
func computeTotals(items []models.CartItem) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].LineTotal)
	}
	tax = subtotal.Mul(TaxRate)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

func asEngineError(err error, fallback string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fallback)
}
