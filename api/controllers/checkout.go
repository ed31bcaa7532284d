package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/libreria-labs/libreria-backend/api/middleware"
	"github.com/libreria-labs/libreria-backend/api/responses"
	"github.com/libreria-labs/libreria-backend/api/validators"
	"github.com/libreria-labs/libreria-backend/internal/invoices"
	"github.com/libreria-labs/libreria-backend/pkg/enums"
	pkgerrors "github.com/libreria-labs/libreria-backend/pkg/errors"
	"github.com/libreria-labs/libreria-backend/pkg/logger"
)

type checkoutRequest struct {
	LegalName string `json:"legal_name" validate:"required,min=2,max=128"`
	Address   string `json:"address" validate:"omitempty,max=256"`
	Email     string `json:"email" validate:"required,email"`
	TaxID     string `json:"tax_id" validate:"omitempty,max=32"`
}

// Checkout issues an invoice from the caller's cart and empties it.
func Checkout(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.IssueInvoice(r.Context(), customerID, invoices.BillingInput{
			LegalName: body.LegalName,
			Address:   body.Address,
			Email:     body.Email,
			TaxID:     body.TaxID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// InvoiceList returns the caller's invoices in issuance order.
func InvoiceList(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		customerID, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// InvoiceGet returns one invoice. Clients may only read their own invoices;
// admins may read any.
func InvoiceGet(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		invoiceID, err := validators.ParsePathID(chi.URLParam(r, "invoiceId"), "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.GetInvoice(r.Context(), invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := authorizeInvoiceAccess(r, invoice.CustomerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invoice)
	}
}

// InvoiceRemove deletes an invoice record. Ownership rules match InvoiceGet.
func InvoiceRemove(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		invoiceID, err := validators.ParsePathID(chi.URLParam(r, "invoiceId"), "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.GetInvoice(r.Context(), invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := authorizeInvoiceAccess(r, invoice.CustomerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveInvoice(r.Context(), invoiceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func authorizeInvoiceAccess(r *http.Request, ownerID int64) error {
	if middleware.RoleFromContext(r.Context()) == enums.AccountRoleAdmin {
		return nil
	}
	if middleware.AccountIDFromContext(r.Context()) != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "invoice belongs to another account")
	}
	return nil
}
