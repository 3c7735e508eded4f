package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is one product-and-quantity entry being committed into an order.
// UnitPrice is the snapshot taken by the caller; the assembler never re-reads
// the catalogue price.
type OrderLine struct {
	ProductID uuid.UUID
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
}

// PlaceOrderInput is everything needed to assemble one order.
type PlaceOrderInput struct {
	CustomerID      uuid.UUID
	ShippingAddress string
	Notes           *string
	Source          string
	Items           []OrderLine
}

// PlaceOrderResult reports the persisted order.
type PlaceOrderResult struct {
	OrderID     uuid.UUID
	TotalAmount decimal.Decimal
}
