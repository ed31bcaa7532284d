package cart

import (
	"github.com/shopspring/decimal"

	"github.com/libreria-labs/libreria-backend/pkg/db/models"
)

// CartDTO is the serializable snapshot of a customer's cart.
type CartDTO struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	Items      []CartItemDTO   `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}

// CartItemDTO is one line of the cart snapshot. Index is the addressing key
// for quantity updates; it shifts when earlier lines are removed.
type CartItemDTO struct {
	Index     int             `json:"index"`
	BookID    int64           `json:"book_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// NewCartDTO maps the persistence model onto the API snapshot. Items are
// assumed to be loaded in position order.
func NewCartDTO(cart *models.Cart) *CartDTO {
	if cart == nil {
		return nil
	}
	items := make([]CartItemDTO, 0, len(cart.Items))
	for i := range cart.Items {
		item := cart.Items[i]
		items = append(items, CartItemDTO{
			Index:     item.Position,
			BookID:    item.BookID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return &CartDTO{
		ID:         cart.ID,
		CustomerID: cart.CustomerID,
		Items:      items,
		Subtotal:   cart.Subtotal,
		Tax:        cart.Tax,
		Total:      cart.Total,
	}
}

// EmptyCartDTO is the snapshot served for a customer who has never mutated
// a cart.
func EmptyCartDTO(customerID int64) *CartDTO {
	return &CartDTO{
		CustomerID: customerID,
		Items:      []CartItemDTO{},
		Subtotal:   decimal.Zero,
		Tax:        decimal.Zero,
		Total:      decimal.Zero,
	}
}
