package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mateovidal/techmart-backend/internal/cart"
	"github.com/mateovidal/techmart-backend/internal/orders"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
)

type stubCarts struct {
	carts    map[string]*cart.Cart
	cleared  []string
	clearErr error
}

func newStubCarts() *stubCarts {
	return &stubCarts{carts: map[string]*cart.Cart{}}
}

func (s *stubCarts) Get(ctx context.Context, shopperID string) (*cart.Cart, error) {
	if snapshot, ok := s.carts[shopperID]; ok {
		return snapshot, nil
	}
	return cart.NewCart(), nil
}

func (s *stubCarts) Clear(ctx context.Context, shopperID string) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = append(s.cleared, shopperID)
	return nil
}

type stubPlacer struct {
	received *orders.PlaceOrderInput
	result   *orders.PlaceOrderResult
	err      error
}

func (s *stubPlacer) PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.PlaceOrderResult, error) {
	s.received = &input
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		s.result = &orders.PlaceOrderResult{OrderID: uuid.New(), TotalAmount: decimal.NewFromInt(25)}
	}
	return s.result, nil
}

func seededCart() *cart.Cart {
	snapshot := cart.NewCart()
	snapshot.Items = []cart.Item{
		{
			ProductID: uuid.New(),
			Name:      "Ryzen 7 9800X",
			UnitPrice: decimal.NewFromInt(10),
			Qty:       2,
			LineTotal: decimal.NewFromInt(20),
		},
	}
	return snapshot
}

func validInput() Input {
	return Input{
		CustomerID:      uuid.New(),
		ShippingAddress: "42 Fake St, Springfield",
	}
}

func TestExecutePlacesOrderFromCart(t *testing.T) {
	t.Parallel()

	carts := newStubCarts()
	carts.carts["shopper-1"] = seededCart()
	placer := &stubPlacer{}
	svc, err := NewService(carts, placer, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Execute(context.Background(), "shopper-1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.OrderID == uuid.Nil {
		t.Fatalf("expected placed order, got %+v", result)
	}
	if placer.received == nil || len(placer.received.Items) != 1 {
		t.Fatalf("expected cart lines forwarded, got %+v", placer.received)
	}
	if placer.received.Source != orders.SourceCheckout {
		t.Fatalf("expected checkout source, got %q", placer.received.Source)
	}
	if len(carts.cleared) != 1 || carts.cleared[0] != "shopper-1" {
		t.Fatalf("expected cart cleared, got %v", carts.cleared)
	}
}

func TestExecuteRejectsAnonymousShopper(t *testing.T) {
	t.Parallel()

	carts := newStubCarts()
	carts.carts["shopper-1"] = seededCart()
	placer := &stubPlacer{}
	svc, err := NewService(carts, placer, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := validInput()
	input.CustomerID = uuid.Nil
	_, err = svc.Execute(context.Background(), "shopper-1", input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if placer.received != nil {
		t.Fatalf("anonymous checkout must not place an order")
	}
}

func TestExecuteRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{}
	svc, err := NewService(newStubCarts(), placer, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Execute(context.Background(), "shopper-1", validInput())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if placer.received != nil {
		t.Fatalf("empty cart must not place an order")
	}
}

func TestExecuteKeepsCartOnOrderFailure(t *testing.T) {
	t.Parallel()

	carts := newStubCarts()
	carts.carts["shopper-1"] = seededCart()
	placer := &stubPlacer{err: pkgerrors.New(pkgerrors.CodeInternal, "insert order")}
	svc, err := NewService(carts, placer, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Execute(context.Background(), "shopper-1", validInput())
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(carts.cleared) != 0 {
		t.Fatalf("failed checkout must not clear the cart")
	}
}

func TestExecuteSucceedsWhenClearFails(t *testing.T) {
	t.Parallel()

	carts := newStubCarts()
	carts.carts["shopper-1"] = seededCart()
	carts.clearErr = fmt.Errorf("connection reset")
	svc, err := NewService(carts, &stubPlacer{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Execute(context.Background(), "shopper-1", validInput())
	if err != nil {
		t.Fatalf("order is durable, clear failure must not surface: %v", err)
	}
	if result == nil || result.OrderID == uuid.Nil {
		t.Fatalf("expected placed order, got %+v", result)
	}
}
