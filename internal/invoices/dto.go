package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/libreria-labs/libreria-backend/pkg/db/models"
)

// InvoiceDTO is the serializable projection of an issued invoice. Everything
// in it is a snapshot; it never changes after issuance.
type InvoiceDTO struct {
	ID             int64            `json:"id"`
	Number         string           `json:"number"`
	CustomerID     int64            `json:"customer_id"`
	IssuedAt       time.Time        `json:"issued_at"`
	BuyerLegalName string           `json:"buyer_legal_name"`
	BuyerAddress   string           `json:"buyer_address"`
	BuyerEmail     string           `json:"buyer_email"`
	BuyerTaxID     string           `json:"buyer_tax_id"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Tax            decimal.Decimal  `json:"tax"`
	Total          decimal.Decimal  `json:"total"`
	Lines          []InvoiceLineDTO `json:"lines"`
}

// InvoiceLineDTO is one invoiced cart line, detached from the live catalog.
type InvoiceLineDTO struct {
	BookID    int64           `json:"book_id"`
	Title     string          `json:"title"`
	ISBN      string          `json:"isbn"`
	Position  int             `json:"position"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewInvoiceDTO maps the persistence model onto the API projection. Lines are
// assumed to be loaded in position order.
func NewInvoiceDTO(invoice *models.Invoice) *InvoiceDTO {
	if invoice == nil {
		return nil
	}
	lines := make([]InvoiceLineDTO, 0, len(invoice.Lines))
	for i := range invoice.Lines {
		line := invoice.Lines[i]
		lines = append(lines, InvoiceLineDTO{
			BookID:    line.BookID,
			Title:     line.Title,
			ISBN:      line.ISBN,
			Position:  line.Position,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}
	return &InvoiceDTO{
		ID:             invoice.ID,
		Number:         invoice.Number,
		CustomerID:     invoice.CustomerID,
		IssuedAt:       invoice.IssuedAt,
		BuyerLegalName: invoice.BuyerLegalName,
		BuyerAddress:   invoice.BuyerAddress,
		BuyerEmail:     invoice.BuyerEmail,
		BuyerTaxID:     invoice.BuyerTaxID,
		Subtotal:       invoice.Subtotal,
		Tax:            invoice.Tax,
		Total:          invoice.Total,
		Lines:          lines,
	}
}
