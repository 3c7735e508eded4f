package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/logger"
	"github.com/mateovidal/techmart-backend/pkg/pricing"
	"github.com/mateovidal/techmart-backend/pkg/redis"
)

// GuestShopperID keys the cart of an unauthenticated shopper.
const GuestShopperID = "guest"

// AddOutcome reports whether AddItem appended a new line or merged into an
// existing one.
type AddOutcome string

const (
	OutcomeAdded  AddOutcome = "added"
	OutcomeMerged AddOutcome = "merged"
)

type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type opsCounter interface {
	IncCartOp(op, outcome string)
}

// Service owns the shopper cart state machine. Every call takes the shopper
// identity explicitly; there is no ambient session.
type Service interface {
	Get(ctx context.Context, shopperID string) (*Cart, error)
	AddItem(ctx context.Context, shopperID string, candidate Item) (*Cart, AddOutcome, error)
	RemoveItem(ctx context.Context, shopperID string, productID uuid.UUID) (*Cart, error)
	UpdateQuantity(ctx context.Context, shopperID string, productID uuid.UUID, qty int) (*Cart, error)
	Clear(ctx context.Context, shopperID string) error
	IsInCart(ctx context.Context, shopperID string, productID uuid.UUID) (bool, error)
}

type service struct {
	store   snapshotStore
	logg    *logger.Logger
	metrics opsCounter
	ttl     time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService builds a cart service persisting snapshots in the provided store.
func NewService(store snapshotStore, logg *logger.Logger, metrics opsCounter, ttl time.Duration) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	return &service{
		store:   store,
		logg:    logg,
		metrics: metrics,
		ttl:     ttl,
		locks:   map[string]*sync.Mutex{},
	}, nil
}

// lockFor serializes mutations (and their persistence writes) per shopper so
// snapshots cannot land out of order.
func (s *service) lockFor(shopperID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[shopperID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[shopperID] = lock
	}
	return lock
}

func normalizeShopperID(shopperID string) string {
	trimmed := strings.TrimSpace(shopperID)
	if trimmed == "" {
		return GuestShopperID
	}
	return trimmed
}

func (s *service) Get(ctx context.Context, shopperID string) (*Cart, error) {
	return s.load(ctx, normalizeShopperID(shopperID))
}

func (s *service) AddItem(ctx context.Context, shopperID string, candidate Item) (*Cart, AddOutcome, error) {
	if candidate.ProductID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if candidate.Qty <= 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if candidate.UnitPrice.IsNegative() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if strings.TrimSpace(candidate.Name) == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}

	shopperID = normalizeShopperID(shopperID)
	lock := s.lockFor(shopperID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.load(ctx, shopperID)
	if err != nil {
		return nil, "", err
	}

	outcome := OutcomeAdded
	if idx := current.indexOf(candidate.ProductID); idx >= 0 {
		line := &current.Items[idx]
		line.Qty += candidate.Qty
		line.LineTotal = pricing.LineTotal(line.UnitPrice, line.Qty)
		outcome = OutcomeMerged
	} else {
		candidate.LineTotal = pricing.LineTotal(candidate.UnitPrice, candidate.Qty)
		current.Items = append(current.Items, candidate)
	}
	current.recompute()

	if err := s.persist(ctx, shopperID, current); err != nil {
		return nil, "", err
	}

	if s.metrics != nil {
		s.metrics.IncCartOp("add", string(outcome))
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"shopper_id": shopperID,
			"product_id": candidate.ProductID,
			"outcome":    string(outcome),
		})
		s.logg.Info(ctx, "cart.item_added")
	}
	return current, outcome, nil
}

func (s *service) RemoveItem(ctx context.Context, shopperID string, productID uuid.UUID) (*Cart, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	shopperID = normalizeShopperID(shopperID)
	lock := s.lockFor(shopperID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.load(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	idx := current.indexOf(productID)
	if idx < 0 {
		// Removing an absent product is a no-op, not an error.
		return current, nil
	}

	current.Items = append(current.Items[:idx], current.Items[idx+1:]...)
	current.recompute()

	if err := s.persist(ctx, shopperID, current); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncCartOp("remove", "removed")
	}
	return current, nil
}

func (s *service) UpdateQuantity(ctx context.Context, shopperID string, productID uuid.UUID, qty int) (*Cart, error) {
	if qty <= 0 {
		return s.RemoveItem(ctx, shopperID, productID)
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	shopperID = normalizeShopperID(shopperID)
	lock := s.lockFor(shopperID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.load(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	idx := current.indexOf(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}

	line := &current.Items[idx]
	line.Qty = qty
	line.LineTotal = pricing.LineTotal(line.UnitPrice, line.Qty)
	current.recompute()

	if err := s.persist(ctx, shopperID, current); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncCartOp("update_quantity", "updated")
	}
	return current, nil
}

func (s *service) Clear(ctx context.Context, shopperID string) error {
	shopperID = normalizeShopperID(shopperID)
	lock := s.lockFor(shopperID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.persist(ctx, shopperID, NewCart()); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncCartOp("clear", "cleared")
	}
	return nil
}

func (s *service) IsInCart(ctx context.Context, shopperID string, productID uuid.UUID) (bool, error) {
	current, err := s.load(ctx, normalizeShopperID(shopperID))
	if err != nil {
		return false, err
	}
	return current.Contains(productID), nil
}

func (s *service) load(ctx context.Context, shopperID string) (*Cart, error) {
	raw, err := s.store.Get(ctx, redis.CartKey(shopperID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewCart(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}

	var snapshot Cart
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		// A corrupt snapshot is discarded, never surfaced to the shopper.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithShopperID(ctx, shopperID), "cart.snapshot_corrupt")
		}
		return NewCart(), nil
	}
	if snapshot.Items == nil {
		snapshot.Items = []Item{}
	}
	snapshot.recompute()
	return &snapshot, nil
}

func (s *service) persist(ctx context.Context, shopperID string, snapshot *Cart) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.store.Set(ctx, redis.CartKey(shopperID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart snapshot")
	}
	return nil
}
