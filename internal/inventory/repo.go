package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateovidal/techmart-backend/pkg/db/models"
)

// Repository persists stock levels. Mutations run as single atomic UPDATE
// statements so concurrent adjustments never interleave read-modify-write.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetStock(ctx context.Context, productID uuid.UUID) (int, error)
	SetStock(ctx context.Context, productID uuid.UUID, qty int) (int, error)
	AddStock(ctx context.Context, productID uuid.UUID, qty int) (int, error)
	RemoveStock(ctx context.Context, productID uuid.UUID, qty int) (int, error)
	Deduct(ctx context.Context, productID uuid.UUID, qty int) error
	Upsert(ctx context.Context, item *models.InventoryItem) error
}

type repositoryImpl struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) (Repository, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &repositoryImpl{conn: conn}, nil
}

// WithTx rebinds the repository to an open transaction.
func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	return &repositoryImpl{conn: tx}
}

func (r *repositoryImpl) GetStock(ctx context.Context, productID uuid.UUID) (int, error) {
	var item models.InventoryItem
	err := r.conn.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&item).Error
	if err != nil {
		return 0, err
	}
	return item.Stock, nil
}

func (r *repositoryImpl) SetStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	result := r.conn.WithContext(ctx).Exec(
		`UPDATE inventory_items
		 SET stock = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE product_id = ?`,
		qty, productID,
	)
	return r.afterUpdate(ctx, productID, result)
}

func (r *repositoryImpl) AddStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	result := r.conn.WithContext(ctx).Exec(
		`UPDATE inventory_items
		 SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE product_id = ?`,
		qty, productID,
	)
	return r.afterUpdate(ctx, productID, result)
}

// RemoveStock decrements stock, flooring at zero inside the statement itself.
func (r *repositoryImpl) RemoveStock(ctx context.Context, productID uuid.UUID, qty int) (int, error) {
	result := r.conn.WithContext(ctx).Exec(
		`UPDATE inventory_items
		 SET stock = CASE WHEN stock - ? < 0 THEN 0 ELSE stock - ? END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE product_id = ?`,
		qty, qty, productID,
	)
	return r.afterUpdate(ctx, productID, result)
}

// Deduct removes qty only when enough stock is available. It is used by
// checkout inside the order transaction; a zero row count means the product
// had no inventory row or not enough stock, and the caller decides which.
func (r *repositoryImpl) Deduct(ctx context.Context, productID uuid.UUID, qty int) error {
	result := r.conn.WithContext(ctx).Exec(
		`UPDATE inventory_items
		 SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE product_id = ? AND stock >= ?`,
		qty, productID, qty,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) Upsert(ctx context.Context, item *models.InventoryItem) error {
	return r.conn.WithContext(ctx).Save(item).Error
}

func (r *repositoryImpl) afterUpdate(ctx context.Context, productID uuid.UUID, result *gorm.DB) (int, error) {
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return r.GetStock(ctx, productID)
}
