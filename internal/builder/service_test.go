package builder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mateovidal/techmart-backend/internal/cart"
	"github.com/mateovidal/techmart-backend/pkg/db/models"
	"github.com/mateovidal/techmart-backend/pkg/enums"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/redis"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

type stubLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubLoader) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

type stubCart struct {
	added []cart.Item
}

func (s *stubCart) AddItem(ctx context.Context, shopperID string, candidate cart.Item) (*cart.Cart, cart.AddOutcome, error) {
	s.added = append(s.added, candidate)
	snapshot := cart.NewCart()
	snapshot.Items = append(snapshot.Items, s.added...)
	return snapshot, cart.OutcomeAdded, nil
}

type fixture struct {
	svc    Service
	store  *memoryStore
	loader *stubLoader
	cart   *stubCart
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemoryStore()
	loader := &stubLoader{products: map[uuid.UUID]*models.Product{}}
	adder := &stubCart{}
	svc, err := NewService(store, loader, adder, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &fixture{svc: svc, store: store, loader: loader, cart: adder}
}

func (f *fixture) addProduct(t *testing.T, category enums.ComponentCategory, price float64, tags ...string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.loader.products[id] = &models.Product{
		ID:                id,
		Name:              string(category) + " option",
		PriceAmount:       decimal.NewFromFloat(price),
		ComponentCategory: &category,
		CompatibilityTags: tags,
		IsActive:          true,
	}
	return id
}

// selectEssentials fills the six essential slots with mutually compatible
// parts and returns the total list price.
func (f *fixture) selectEssentials(t *testing.T, processorTags, boardTags []string) decimal.Decimal {
	t.Helper()
	ctx := context.Background()
	total := decimal.Zero
	selections := []struct {
		category enums.ComponentCategory
		price    float64
		tags     []string
	}{
		{enums.ComponentProcessor, 329.99, processorTags},
		{enums.ComponentBoard, 199.99, boardTags},
		{enums.ComponentMemory, 89.99, nil},
		{enums.ComponentStorage, 119.99, nil},
		{enums.ComponentPowerSupply, 99.99, nil},
		{enums.ComponentEnclosure, 79.99, nil},
	}
	for _, sel := range selections {
		id := f.addProduct(t, sel.category, sel.price, sel.tags...)
		if _, err := f.svc.Select(ctx, "shopper-1", id); err != nil {
			t.Fatalf("selecting %s: %v", sel.category, err)
		}
		total = total.Add(decimal.NewFromFloat(sel.price))
	}
	return total
}

func TestSelectFillsSlot(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	productID := f.addProduct(t, enums.ComponentProcessor, 329.99, "am5_socket")

	build, err := f.svc.Select(context.Background(), "shopper-1", productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	component := build.Component(enums.ComponentProcessor)
	if component == nil || component.ProductID != productID {
		t.Fatalf("slot not filled: %+v", build)
	}
}

func TestSelectReplacesSlot(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	first := f.addProduct(t, enums.ComponentProcessor, 329.99)
	second := f.addProduct(t, enums.ComponentProcessor, 279.99)

	if _, err := f.svc.Select(ctx, "shopper-1", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	build, err := f.svc.Select(ctx, "shopper-1", second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	component := build.Component(enums.ComponentProcessor)
	if component == nil || component.ProductID != second {
		t.Fatalf("expected replacement, got %+v", component)
	}
}

func TestSelectRejectsNonComponent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := uuid.New()
	f.loader.products[id] = &models.Product{
		ID:          id,
		Name:        "USB cable",
		PriceAmount: decimal.NewFromInt(5),
		IsActive:    true,
	}

	_, err := f.svc.Select(context.Background(), "shopper-1", id)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSelectRejectsInactiveProduct(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	productID := f.addProduct(t, enums.ComponentProcessor, 329.99)
	f.loader.products[productID].IsActive = false

	_, err := f.svc.Select(context.Background(), "shopper-1", productID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state-conflict error, got %v", err)
	}
}

func TestDeselectEmptiesSlot(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	productID := f.addProduct(t, enums.ComponentMemory, 89.99)

	if _, err := f.svc.Select(ctx, "shopper-1", productID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	build, err := f.svc.Deselect(ctx, "shopper-1", enums.ComponentMemory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if build.Component(enums.ComponentMemory) != nil {
		t.Fatalf("slot should be empty")
	}

	_, err = f.svc.Deselect(ctx, "shopper-1", enums.ComponentCategory("gpu"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCompatibilityChecks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		processor []string
		board     []string
		want      bool
	}{
		{"shared tag", []string{"intel_socket"}, []string{"intel_socket"}, true},
		{"disjoint tags", []string{"intel_socket"}, []string{"amd_socket"}, false},
		{"untagged processor", nil, []string{"amd_socket"}, true},
		{"untagged board", []string{"intel_socket"}, nil, true},
		{"multiple tags overlap", []string{"ddr5", "am5_socket"}, []string{"am5_socket", "atx"}, true},
	}
	for _, tc := range cases {
		build := NewBuild()
		build.set(&Component{Category: enums.ComponentProcessor, CompatibilityTags: tc.processor})
		build.set(&Component{Category: enums.ComponentBoard, CompatibilityTags: tc.board})
		if got := build.IsCompatible(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSummaryReportsMissingSlots(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	productID := f.addProduct(t, enums.ComponentProcessor, 329.99)
	if _, err := f.svc.Select(context.Background(), "shopper-1", productID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary, err := f.svc.Summary(context.Background(), "shopper-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Complete {
		t.Fatalf("build with one slot cannot be complete")
	}
	if len(summary.Missing) != 5 {
		t.Fatalf("expected five missing essentials, got %v", summary.Missing)
	}
}

func TestCommitRejectsIncompleteBuild(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	productID := f.addProduct(t, enums.ComponentProcessor, 329.99)
	if _, err := f.svc.Select(context.Background(), "shopper-1", productID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.Commit(context.Background(), "shopper-1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state-conflict error, got %v", err)
	}
	if len(f.cart.added) != 0 {
		t.Fatalf("incomplete build must not touch the cart")
	}
}

func TestCommitRejectsIncompatibleBuild(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.selectEssentials(t, []string{"intel_socket"}, []string{"amd_socket"})

	_, err := f.svc.Commit(context.Background(), "shopper-1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state-conflict error, got %v", err)
	}
	if len(f.cart.added) != 0 {
		t.Fatalf("incompatible build must not touch the cart")
	}
}

func TestCommitMovesBuildIntoCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	total := f.selectEssentials(t, []string{"am5_socket"}, []string{"am5_socket"})

	snapshot, err := f.svc.Commit(ctx, "shopper-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.cart.added) != 6 {
		t.Fatalf("expected six cart adds, got %d", len(f.cart.added))
	}
	for _, item := range f.cart.added {
		if item.Qty != 1 {
			t.Fatalf("components are added one at a time, got qty %d", item.Qty)
		}
	}
	if snapshot == nil {
		t.Fatalf("expected resulting cart snapshot")
	}

	sum := decimal.Zero
	for _, item := range f.cart.added {
		sum = sum.Add(item.UnitPrice)
	}
	if !sum.Equal(total) {
		t.Fatalf("expected committed total %s, got %s", total, sum)
	}

	// The build resets after a successful commit.
	build, err := f.svc.Get(ctx, "shopper-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if build.Component(enums.ComponentProcessor) != nil {
		t.Fatalf("build should be empty after commit")
	}
}

func TestCorruptSnapshotResetsToEmptyBuild(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.values[redis.BuildKey("shopper-1")] = "{not json"

	build, err := f.svc.Get(context.Background(), "shopper-1")
	if err != nil {
		t.Fatalf("corrupt snapshot must not surface an error, got %v", err)
	}
	for _, slot := range build.Slots {
		if slot != nil {
			t.Fatalf("expected empty build, got %+v", build)
		}
	}
}
