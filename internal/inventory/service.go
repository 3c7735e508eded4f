package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateovidal/techmart-backend/pkg/enums"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/logger"
)

type adjustmentCounter interface {
	IncStockAdjustment(mode string)
}

// Service exposes stock reads and validated adjustments.
type Service interface {
	Get(ctx context.Context, productID uuid.UUID) (int, error)
	Adjust(ctx context.Context, productID uuid.UUID, mode enums.StockAdjustmentMode, amount int) (int, error)
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics adjustmentCounter
}

func NewService(repo Repository, logg *logger.Logger, metrics adjustmentCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo, logg: logg, metrics: metrics}, nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (int, error) {
	if productID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	stock, err := s.repo.GetStock(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read stock")
	}
	return stock, nil
}

// Adjust applies one stock mutation. Validation happens before any write so a
// bad request never touches the ledger.
func (s *service) Adjust(ctx context.Context, productID uuid.UUID, mode enums.StockAdjustmentMode, amount int) (int, error) {
	if productID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !mode.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown adjustment mode").
			WithDetails(map[string]any{"mode": string(mode)})
	}
	if amount < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}

	var (
		stock int
		err   error
	)
	switch mode {
	case enums.StockAdjustmentSet:
		stock, err = s.repo.SetStock(ctx, productID, amount)
	case enums.StockAdjustmentAdd:
		stock, err = s.repo.AddStock(ctx, productID, amount)
	case enums.StockAdjustmentRemove:
		stock, err = s.repo.RemoveStock(ctx, productID, amount)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adjust stock")
	}

	if s.metrics != nil {
		s.metrics.IncStockAdjustment(mode.String())
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"product_id": productID,
			"mode":       mode.String(),
			"amount":     amount,
			"stock":      stock,
		})
		s.logg.Info(ctx, "inventory.adjusted")
	}
	return stock, nil
}
