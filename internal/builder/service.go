package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mateovidal/techmart-backend/internal/cart"
	"github.com/mateovidal/techmart-backend/pkg/db/models"
	"github.com/mateovidal/techmart-backend/pkg/enums"
	pkgerrors "github.com/mateovidal/techmart-backend/pkg/errors"
	"github.com/mateovidal/techmart-backend/pkg/logger"
	"github.com/mateovidal/techmart-backend/pkg/redis"
)

type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type productLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type cartAdder interface {
	AddItem(ctx context.Context, shopperID string, candidate cart.Item) (*cart.Cart, cart.AddOutcome, error)
}

// Service manages per-shopper PC builds and commits finished builds into the
// cart.
type Service interface {
	Get(ctx context.Context, shopperID string) (*Build, error)
	Select(ctx context.Context, shopperID string, productID uuid.UUID) (*Build, error)
	Deselect(ctx context.Context, shopperID string, category enums.ComponentCategory) (*Build, error)
	Summary(ctx context.Context, shopperID string) (*Summary, error)
	Commit(ctx context.Context, shopperID string) (*cart.Cart, error)
	Clear(ctx context.Context, shopperID string) error
}

type service struct {
	store    snapshotStore
	products productLoader
	carts    cartAdder
	logg     *logger.Logger
	ttl      time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store snapshotStore, products productLoader, carts cartAdder, logg *logger.Logger, ttl time.Duration) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	return &service{
		store:    store,
		products: products,
		carts:    carts,
		logg:     logg,
		ttl:      ttl,
		locks:    map[string]*sync.Mutex{},
	}, nil
}

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
	if shopperID == "" {
		return cart.GuestShopperID
	}
	return shopperID
}

func (s *service) Get(ctx context.Context, shopperID string) (*Build, error) {
	return s.load(ctx, normalizeShopperID(shopperID))
}

func (s *service) Select(ctx context.Context, shopperID string, productID uuid.UUID) (*Build, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not purchasable")
	}
	if product.ComponentCategory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not a build component")
	}

	component := &Component{
		ProductID:         product.ID,
		Name:              product.Name,
		Category:          *product.ComponentCategory,
		UnitPrice:         product.PriceAmount,
		CompatibilityTags: append([]string{}, product.CompatibilityTags...),
	}
	if product.ImageURL != nil {
		component.ImageURL = *product.ImageURL
	}

	shopperID = normalizeShopperID(shopperID)
	lock := s.lockFor(shopperID)
	lock.Lock()
	defer lock.Unlock()

	build, err := s.load(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	build.set(component)

	if err := s.persist(ctx, shopperID, build); err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"shopper_id": shopperID,
			"product_id": productID,
			"category":   component.Category.String(),
		})
		s.logg.Info(ctx, "build.component_selected")
	}
	return build, nil
}

func (s *service) Deselect(ctx context.Context, shopperID string, category enums.ComponentCategory) (*Build, error) {
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown component category").
			WithDetails(map[string]any{"category": string(category)})
	}

	shopperID = normalizeShopperID(shopperID)
	lock := s.lockFor(shopperID)
	lock.Lock()
	defer lock.Unlock()

	build, err := s.load(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	build.clear(category)

	if err := s.persist(ctx, shopperID, build); err != nil {
		return nil, err
	}
	return build, nil
}

func (s *service) Summary(ctx context.Context, shopperID string) (*Summary, error) {
	build, err := s.load(ctx, normalizeShopperID(shopperID))
	if err != nil {
		return nil, err
	}
	return build.Summarize(), nil
}

// Commit moves a complete, compatible build into the shopper's cart and
// resets the build.
func (s *service) Commit(ctx context.Context, shopperID string) (*cart.Cart, error) {
	shopperID = normalizeShopperID(shopperID)
	lock := s.lockFor(shopperID)
	lock.Lock()
	defer lock.Unlock()

	build, err := s.load(ctx, shopperID)
	if err != nil {
		return nil, err
	}
	if !build.IsComplete() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "build is incomplete").
			WithDetails(map[string]any{"missing": build.MissingEssential()})
	}
	if !build.IsCompatible() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "processor and board are incompatible")
	}

	var snapshot *cart.Cart
	for _, component := range build.Slots {
		if component == nil {
			continue
		}
		snapshot, _, err = s.carts.AddItem(ctx, shopperID, cart.Item{
			ProductID: component.ProductID,
			Name:      component.Name,
			UnitPrice: component.UnitPrice,
			Qty:       1,
			ImageURL:  component.ImageURL,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.Del(ctx, redis.BuildKey(shopperID)); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithShopperID(ctx, shopperID), "build.reset_failed")
		}
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithShopperID(ctx, shopperID), "build.committed")
	}
	return snapshot, nil
}

func (s *service) Clear(ctx context.Context, shopperID string) error {
	shopperID = normalizeShopperID(shopperID)
	lock := s.lockFor(shopperID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.Del(ctx, redis.BuildKey(shopperID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset build snapshot")
	}
	return nil
}

func (s *service) load(ctx context.Context, shopperID string) (*Build, error) {
	raw, err := s.store.Get(ctx, redis.BuildKey(shopperID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return NewBuild(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load build snapshot")
	}

	var build Build
	if err := json.Unmarshal([]byte(raw), &build); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithShopperID(ctx, shopperID), "build.snapshot_corrupt")
		}
		return NewBuild(), nil
	}
	return &build, nil
}

func (s *service) persist(ctx context.Context, shopperID string, build *Build) error {
	payload, err := json.Marshal(build)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode build snapshot")
	}
	if err := s.store.Set(ctx, redis.BuildKey(shopperID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist build snapshot")
	}
	return nil
}
