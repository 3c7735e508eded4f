package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mateovidal/techmart-backend/pkg/db/models"
)

// Repository persists catalogue listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	FindActive(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
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

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	return &repositoryImpl{conn: tx}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.conn.WithContext(ctx).
		Preload("Inventory").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var list []models.Product
	err := r.conn.WithContext(ctx).
		Preload("Inventory").
		Where("id IN ?", ids).
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindActive(ctx context.Context) ([]models.Product, error) {
	var list []models.Product
	err := r.conn.WithContext(ctx).
		Preload("Inventory").
		Where("is_active = ?", true).
		Order("name asc").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Create(ctx context.Context, product *models.Product) error {
	return r.conn.WithContext(ctx).Create(product).Error
}

func (r *repositoryImpl) Update(ctx context.Context, product *models.Product) error {
	return r.conn.WithContext(ctx).Save(product).Error
}
