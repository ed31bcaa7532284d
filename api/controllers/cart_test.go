package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/libreria-labs/libreria-backend/api/middleware"
	"github.com/libreria-labs/libreria-backend/internal/cart"
	pkgerrors "github.com/libreria-labs/libreria-backend/pkg/errors"
)

type stubCartService struct {
	snapshot *cart.CartDTO
	err      error

	addCalls []struct {
		customerID int64
		bookID     int64
		quantity   int
	}
	setCalls []struct {
		customerID int64
		index      int
		quantity   int
	}
	cleared []int64
}

func (s *stubCartService) AddItem(ctx context.Context, customerID, bookID int64, quantity int) (*cart.CartDTO, error) {
	s.addCalls = append(s.addCalls, struct {
		customerID int64
		bookID     int64
		quantity   int
	}{customerID, bookID, quantity})
	return s.snapshot, s.err
}

func (s *stubCartService) SetItemQuantity(ctx context.Context, customerID int64, index, quantity int) (*cart.CartDTO, error) {
	s.setCalls = append(s.setCalls, struct {
		customerID int64
		index      int
		quantity   int
	}{customerID, index, quantity})
	return s.snapshot, s.err
}

func (s *stubCartService) GetCart(ctx context.Context, customerID int64) (*cart.CartDTO, error) {
	return s.snapshot, s.err
}

func (s *stubCartService) Clear(ctx context.Context, customerID int64) error {
	s.cleared = append(s.cleared, customerID)
	return s.err
}

func withCustomer(req *http.Request, customerID int64) *http.Request {
	return req.WithContext(middleware.WithAccountID(req.Context(), customerID))
}

func TestCartFetchReturnsSnapshot(t *testing.T) {
	svc := &stubCartService{snapshot: &cart.CartDTO{
		ID:         10,
		CustomerID: 7,
		Items:      []cart.CartItemDTO{},
		Subtotal:   decimal.Zero,
		Tax:        decimal.Zero,
		Total:      decimal.Zero,
	}}
	handler := CartFetch(svc, nil)

	req := withCustomer(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), 7)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cart.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CustomerID != 7 {
		t.Fatalf("expected customer 7 got %d", envelope.Data.CustomerID)
	}
}

func TestCartFetchRequiresContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemForwardsPayload(t *testing.T) {
	svc := &stubCartService{snapshot: &cart.CartDTO{CustomerID: 7}}
	handler := CartAddItem(svc, nil)

	req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{"book_id":3,"quantity":2}`))), 7)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.addCalls) != 1 {
		t.Fatalf("expected one add call got %d", len(svc.addCalls))
	}
	call := svc.addCalls[0]
	if call.customerID != 7 || call.bookID != 3 || call.quantity != 2 {
		t.Fatalf("unexpected add call: %+v", call)
	}
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	svc := &stubCartService{}
	handler := CartAddItem(svc, nil)

	req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{"book_id":3,"quantity":0}`))), 7)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.addCalls) != 0 {
		t.Fatalf("expected no service call, got %d", len(svc.addCalls))
	}
}

func TestCartSetItemQuantityAllowsZero(t *testing.T) {
	svc := &stubCartService{snapshot: &cart.CartDTO{CustomerID: 7}}
	handler := CartSetItemQuantity(svc, nil)

	req := withCustomer(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items", bytes.NewReader([]byte(`{"index":0,"quantity":0}`))), 7)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.setCalls) != 1 {
		t.Fatalf("expected one set call got %d", len(svc.setCalls))
	}
	if svc.setCalls[0].index != 0 || svc.setCalls[0].quantity != 0 {
		t.Fatalf("unexpected set call: %+v", svc.setCalls[0])
	}
}

func TestCartSetItemQuantityMissingIndex(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "no cart item at the given index")}
	handler := CartSetItemQuantity(svc, nil)

	req := withCustomer(httptest.NewRequest(http.MethodPut, "/api/v1/cart/items", bytesReader(`{"index":4,"quantity":1}`)), 7)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{}
	handler := CartClear(svc, nil)

	req := withCustomer(httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil), 7)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.cleared) != 1 || svc.cleared[0] != 7 {
		t.Fatalf("unexpected clear calls: %+v", svc.cleared)
	}
}

func bytesReader(s string) *bytes.Reader {
	return bytes.NewReader([]byte(s))
}
