package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks the available stock count per product. Stock is
// adjusted only through atomic updates and never goes negative.
type InventoryItem struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
