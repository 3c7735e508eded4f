package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mateovidal/techmart-backend/pkg/pricing"
)

// Item is one product-and-quantity line within a shopper's cart. LineTotal
// always equals UnitPrice multiplied by Qty; the service recomputes it on
// every mutation.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Qty       int             `json:"qty"`
	ImageURL  string          `json:"image_url,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart is the shopper's in-progress selection. A product id appears at most
// once; adding the same product merges quantities.
type Cart struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// NewCart returns an empty cart with zeroed aggregates.
func NewCart() *Cart {
	return &Cart{Items: []Item{}, Total: decimal.Zero, Count: 0}
}

func (c *Cart) recompute() {
	lines := make([]pricing.LineView, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.LineView{Qty: item.Qty, Total: item.LineTotal}
	}
	c.Total, c.Count = pricing.Aggregate(lines)
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Contains reports whether the product is present in the cart.
func (c *Cart) Contains(productID uuid.UUID) bool {
	return c.indexOf(productID) >= 0
}
