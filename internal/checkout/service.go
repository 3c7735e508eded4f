package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mateovidal/techmart-backend/internal/cart"
	"github.com/mateovidal/techmart-backend/internal/orders"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/logger"
)

type cartStore interface {
	Get(ctx context.Context, shopperID string) (*cart.Cart, error)
	Clear(ctx context.Context, shopperID string) error
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.PlaceOrderResult, error)
}

// Input identifies the customer an order is placed for. The item list comes
// from the shopper's cart snapshot, never from the request body.
type Input struct {
	CustomerID      uuid.UUID
	ShippingAddress string
	Notes           *string
}

// Service converts a cart snapshot into a placed order.
type Service interface {
	Execute(ctx context.Context, shopperID string, input Input) (*orders.PlaceOrderResult, error)
}

type service struct {
	carts  cartStore
	orders orderPlacer
	logg   *logger.Logger
}

func NewService(carts cartStore, placer orderPlacer, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	return &service{carts: carts, orders: placer, logg: logg}, nil
}

func (s *service) Execute(ctx context.Context, shopperID string, input Input) (*orders.PlaceOrderResult, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires an authenticated customer")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	snapshot, err := s.carts.Get(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if len(snapshot.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]orders.OrderLine, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		lines = append(lines, orders.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		})
	}

	result, err := s.orders.PlaceOrder(ctx, orders.PlaceOrderInput{
		CustomerID:      input.CustomerID,
		ShippingAddress: input.ShippingAddress,
		Notes:           input.Notes,
		Source:          orders.SourceCheckout,
		Items:           lines,
	})
	if err != nil {
		return nil, err
	}

	// The order is durable at this point; a failed cart clear only leaves a
	// stale snapshot behind.
	if err := s.carts.Clear(ctx, shopperID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithOrderID(ctx, result.OrderID.String()), "checkout.cart_clear_failed")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_id":    result.OrderID,
			"customer_id": input.CustomerID,
		})
		s.logg.Info(ctx, "checkout.completed")
	}
	return result, nil
}
