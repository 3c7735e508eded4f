package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/redis"
)

type memoryStore struct {
	values map[string]string
	sets   int
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
	m.sets++
	return nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func newTestService(t *testing.T, store *memoryStore) Service {
	t.Helper()
	svc, err := NewService(store, nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func testItem(productID uuid.UUID, price float64, qty int) Item {
	return Item{
		ProductID: productID,
		Name:      "Ryzen 7 9800X",
		UnitPrice: decimal.NewFromFloat(price),
		Qty:       qty,
	}
}

func TestAddItemAppends(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryStore())
	productID := uuid.New()

	got, outcome, err := svc.AddItem(context.Background(), "shopper-1", testItem(productID, 10, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeAdded {
		t.Fatalf("expected added outcome, got %s", outcome)
	}
	if len(got.Items) != 1 || got.Count != 2 {
		t.Fatalf("unexpected cart state: %+v", got)
	}
	if !got.Items[0].LineTotal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected line total 20, got %s", got.Items[0].LineTotal)
	}
	if !got.Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected cart total 20, got %s", got.Total)
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryStore())
	productID := uuid.New()
	ctx := context.Background()

	if _, _, err := svc.AddItem(ctx, "shopper-1", testItem(productID, 10, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, outcome, err := svc.AddItem(ctx, "shopper-1", testItem(productID, 10, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeMerged {
		t.Fatalf("expected merged outcome, got %s", outcome)
	}
	if len(got.Items) != 1 || got.Items[0].Qty != 3 {
		t.Fatalf("expected one line with qty 3, got %+v", got)
	}

	// The merged end state equals a single add with the summed quantity.
	single := newTestService(t, newMemoryStore())
	want, _, err := single.AddItem(ctx, "shopper-1", testItem(productID, 10, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Total.Equal(want.Total) || got.Count != want.Count {
		t.Fatalf("merge not equivalent to single add: got %s/%d want %s/%d",
			got.Total, got.Count, want.Total, want.Count)
	}
}

func TestAggregatesHoldAcrossMutations(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryStore())
	ctx := context.Background()
	first := uuid.New()
	second := uuid.New()

	if _, _, err := svc.AddItem(ctx, "shopper-1", testItem(first, 19.99, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := svc.AddItem(ctx, "shopper-1", testItem(second, 5, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.UpdateQuantity(ctx, "shopper-1", first, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := decimal.Zero
	count := 0
	for _, item := range got.Items {
		if !item.LineTotal.Equal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))) {
			t.Fatalf("line total out of sync: %+v", item)
		}
		sum = sum.Add(item.LineTotal)
		count += item.Qty
	}
	if !got.Total.Equal(sum) || got.Count != count {
		t.Fatalf("aggregates out of sync: total=%s count=%d", got.Total, got.Count)
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	productID := uuid.New()

	updated := newTestService(t, newMemoryStore())
	if _, _, err := updated.AddItem(ctx, "shopper-1", testItem(productID, 10, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	viaUpdate, err := updated.UpdateQuantity(ctx, "shopper-1", productID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	removed := newTestService(t, newMemoryStore())
	if _, _, err := removed.AddItem(ctx, "shopper-1", testItem(productID, 10, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	viaRemove, err := removed.RemoveItem(ctx, "shopper-1", productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(viaUpdate.Items) != 0 || len(viaRemove.Items) != 0 {
		t.Fatalf("expected empty carts, got %+v and %+v", viaUpdate, viaRemove)
	}
	if !viaUpdate.Total.Equal(viaRemove.Total) || viaUpdate.Count != viaRemove.Count {
		t.Fatalf("carts diverged: %+v vs %+v", viaUpdate, viaRemove)
	}
}

func TestUpdateQuantityAbsentProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryStore())
	_, err := svc.UpdateQuantity(context.Background(), "shopper-1", uuid.New(), 2)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRemoveAbsentProductIsNoop(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	svc := newTestService(t, store)
	got, err := svc.RemoveItem(context.Background(), "shopper-1", uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", got)
	}
	if store.sets != 0 {
		t.Fatalf("no-op remove should not persist, wrote %d times", store.sets)
	}
}

func TestPersistedSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	svc := newTestService(t, store)
	ctx := context.Background()
	productID := uuid.New()

	if _, _, err := svc.AddItem(ctx, "shopper-1", testItem(productID, 12.5, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A fresh service over the same store adopts the persisted snapshot.
	fresh := newTestService(t, store)
	got, err := fresh.Get(ctx, "shopper-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Qty != 2 {
		t.Fatalf("snapshot not adopted: %+v", got)
	}
	if !got.Total.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected total 25, got %s", got.Total)
	}
}

func TestCorruptSnapshotResetsToEmpty(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.values[redis.CartKey("shopper-1")] = "{not json"
	svc := newTestService(t, store)

	got, err := svc.Get(context.Background(), "shopper-1")
	if err != nil {
		t.Fatalf("corrupt snapshot must not surface an error, got %v", err)
	}
	if len(got.Items) != 0 || got.Count != 0 || !got.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

func TestClearResetsCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryStore())
	ctx := context.Background()

	if _, _, err := svc.AddItem(ctx, "shopper-1", testItem(uuid.New(), 10, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Clear(ctx, "shopper-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Get(ctx, "shopper-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 0 || got.Count != 0 || !got.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", got)
	}
}

func TestGuestFallbackKey(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	svc := newTestService(t, store)
	if _, _, err := svc.AddItem(context.Background(), "  ", testItem(uuid.New(), 10, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.values[redis.CartKey(GuestShopperID)]; !ok {
		t.Fatalf("expected guest key, stored keys: %v", store.values)
	}
}

func TestIsInCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryStore())
	ctx := context.Background()
	productID := uuid.New()

	if _, _, err := svc.AddItem(ctx, "shopper-1", testItem(productID, 10, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok, err := svc.IsInCart(ctx, "shopper-1", productID); err != nil || !ok {
		t.Fatalf("expected product in cart, got %v/%v", ok, err)
	}
	if ok, err := svc.IsInCart(ctx, "shopper-1", uuid.New()); err != nil || ok {
		t.Fatalf("expected product absent, got %v/%v", ok, err)
	}
}
