package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateovidal/techmart-backend/pkg/db/models"
	"github.com/mateovidal/techmart-backend/pkg/enums"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
)

type stubRepo struct {
	stock     map[uuid.UUID]int
	setCalls  int
	addCalls  int
	remCalls  int
	failWrite error
}

func newStubRepo() *stubRepo {
	return &stubRepo{stock: map[uuid.UUID]int{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) GetStock(ctx context.Context, productID uuid.UUID) (int, error) {
	qty, ok := s.stock[productID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return qty, nil
}

func (s *stubRepo) SetStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	s.setCalls++
	return s.write(productID, func(int) int { return qty })
}

func (s *stubRepo) AddStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	s.addCalls++
	return s.write(productID, func(current int) int { return current + qty })
}

func (s *stubRepo) RemoveStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	s.remCalls++
	return s.write(productID, func(current int) int {
		if current-qty < 0 {
			return 0
		}
		return current - qty
	})
}

func (s *stubRepo) Deduct(ctx context.Context, productID uuid.UUID, qty int) error {
	current, ok := s.stock[productID]
	if !ok || current < qty {
		return gorm.ErrRecordNotFound
	}
	s.stock[productID] = current - qty
	return nil
}

func (s *stubRepo) Upsert(ctx context.Context, item *models.InventoryItem) error {
	s.stock[item.ProductID] = item.Stock
	return nil
}

func (s *stubRepo) write(productID uuid.UUID, apply func(int) int) (int, error) {
	if s.failWrite != nil {
		return 0, s.failWrite
	}
	current, ok := s.stock[productID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	next := apply(current)
	s.stock[productID] = next
	return next, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestAdjustSet(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	productID := uuid.New()
	repo.stock[productID] = 3

	stock, err := newTestService(t, repo).Adjust(context.Background(), productID, enums.StockAdjustmentSet, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock != 10 || repo.setCalls != 1 {
		t.Fatalf("expected stock 10 after one set, got %d (%d calls)", stock, repo.setCalls)
	}
}

func TestAdjustAddAccumulates(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	productID := uuid.New()
	repo.stock[productID] = 2

	svc := newTestService(t, repo)
	if _, err := svc.Adjust(context.Background(), productID, enums.StockAdjustmentAdd, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stock, err := svc.Adjust(context.Background(), productID, enums.StockAdjustmentAdd, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock != 11 {
		t.Fatalf("expected stock 11, got %d", stock)
	}
}

func TestAdjustRemoveFloorsAtZero(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	productID := uuid.New()
	repo.stock[productID] = 3

	stock, err := newTestService(t, repo).Adjust(context.Background(), productID, enums.StockAdjustmentRemove, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock != 0 {
		t.Fatalf("expected floor at zero, got %d", stock)
	}
}

func TestAdjustRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	productID := uuid.New()
	repo.stock[productID] = 3

	_, err := newTestService(t, repo).Adjust(context.Background(), productID, enums.StockAdjustmentMode("drop"), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.setCalls+repo.addCalls+repo.remCalls != 0 {
		t.Fatalf("invalid mode must not reach the repository")
	}
}

func TestAdjustRejectsNegativeAmount(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	productID := uuid.New()
	repo.stock[productID] = 3

	_, err := newTestService(t, repo).Adjust(context.Background(), productID, enums.StockAdjustmentAdd, -1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.addCalls != 0 {
		t.Fatalf("negative amount must not reach the repository")
	}
}

func TestAdjustUnknownProduct(t *testing.T) {
	t.Parallel()

	_, err := newTestService(t, newStubRepo()).Adjust(context.Background(), uuid.New(), enums.StockAdjustmentSet, 5)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestGetUnknownProduct(t *testing.T) {
	t.Parallel()

	_, err := newTestService(t, newStubRepo()).Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
