package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateovidal/techmart-backend/internal/inventory"
	"github.com/mateovidal/techmart-backend/pkg/db/models"
	"github.com/mateovidal/techmart-backend/pkg/enums"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/logger"
	"github.com/mateovidal/techmart-backend/pkg/pricing"
)

// SourceCheckout and SourceAdmin label where an order originated for metrics.
const (
	SourceCheckout = "checkout"
	SourceAdmin    = "admin"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productResolver interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type orderCounter interface {
	IncOrderPlaced(source string)
}

// Service assembles orders from validated item lists. PlaceOrder writes the
// header and items in one transaction; PlaceOrderNonAtomic keeps the legacy
// two-phase write whose item failure leaves a headerless order behind.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	PlaceOrderNonAtomic(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo        Repository
	products    productResolver
	stock       inventory.Repository
	tx          txRunner
	logg        *logger.Logger
	metrics     orderCounter
	deductStock bool
}

// Options configures optional collaborators of the order service.
type Options struct {
	Logger      *logger.Logger
	Metrics     orderCounter
	Stock       inventory.Repository
	DeductStock bool
}

func NewService(repo Repository, products productResolver, tx txRunner, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if opts.DeductStock && opts.Stock == nil {
		return nil, fmt.Errorf("stock deduction enabled without a stock ledger")
	}
	return &service{
		repo:        repo,
		products:    products,
		stock:       opts.Stock,
		tx:          tx,
		logg:        opts.Logger,
		metrics:     opts.Metrics,
		deductStock: opts.DeductStock,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	order, items, err := s.assemble(ctx, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order items")
		}
		if s.deductStock {
			ledger := s.stock.WithTx(tx)
			for _, item := range items {
				if err := ledger.Deduct(ctx, item.ProductID, item.Qty); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
							WithDetails(map[string]any{"product_id": item.ProductID})
					}
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deduct stock")
				}
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "place order")
	}

	s.afterPlace(ctx, order, input.Source)
	return &PlaceOrderResult{OrderID: order.ID, TotalAmount: order.TotalAmount}, nil
}

// PlaceOrderNonAtomic writes the header first and the items second with no
// surrounding transaction. An item failure surfaces as a partial commit with
// the dangling order id attached so operators can reconcile.
func (s *service) PlaceOrderNonAtomic(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	order, items, err := s.assemble(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert order")
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.repo.CreateItems(ctx, items); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "order.items_write_failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePartialCommit, err, "order header committed without items").
			WithDetails(map[string]any{"order_id": order.ID})
	}

	s.afterPlace(ctx, order, input.Source)
	return &PlaceOrderResult{OrderID: order.ID, TotalAmount: order.TotalAmount}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	list, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return list, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": string(status)})
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		// Re-applying the current status is idempotent.
		return order, nil
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]any{
				"from": order.Status.String(),
				"to":   status.String(),
			})
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	order.Status = status
	return order, nil
}

// assemble validates the input, resolves the products, and builds the rows to
// be written. Nothing is persisted here; preconditions fail before any write.
func (s *service) assemble(ctx context.Context, input PlaceOrderInput) (*models.Order, []models.OrderItem, error) {
	if input.CustomerID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if len(input.Items) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	seen := map[uuid.UUID]bool{}
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if line.Qty <= 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		if line.UnitPrice.IsNegative() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		if seen[line.ProductID] {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in order").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		seen[line.ProductID] = true
		ids = append(ids, line.ProductID)
	}

	resolved, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve products")
	}
	byID := make(map[uuid.UUID]models.Product, len(resolved))
	for _, product := range resolved {
		byID[product.ID] = product
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	views := make([]pricing.LineView, 0, len(input.Items))
	for _, line := range input.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		if !product.IsActive {
			return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not purchasable").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		name := line.Name
		if name == "" {
			name = product.Name
		}
		lineTotal := pricing.LineTotal(line.UnitPrice, line.Qty)
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      name,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: lineTotal,
		})
		views = append(views, pricing.LineView{Qty: line.Qty, Total: lineTotal})
	}

	total, _ := pricing.Aggregate(views)
	order := &models.Order{
		CustomerID:      input.CustomerID,
		Status:          enums.OrderStatusPending,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		Notes:           input.Notes,
		TotalAmount:     total,
	}
	return order, items, nil
}

func (s *service) afterPlace(ctx context.Context, order *models.Order, source string) {
	if source == "" {
		source = SourceAdmin
	}
	if s.metrics != nil {
		s.metrics.IncOrderPlaced(source)
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_id":     order.ID,
			"customer_id":  order.CustomerID,
			"total_amount": order.TotalAmount.String(),
			"source":       source,
		})
		s.logg.Info(ctx, "order.placed")
	}
}
