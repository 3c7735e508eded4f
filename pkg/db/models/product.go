package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mateovidal/techmart-backend/pkg/enums"
)

// Product represents a catalogue listing.
type Product struct {
	ID                uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU               string                   `gorm:"column:sku;not null;uniqueIndex"`
	Name              string                   `gorm:"column:name;not null"`
	Description       *string                  `gorm:"column:description"`
	PriceAmount       decimal.Decimal          `gorm:"column:price_amount;type:numeric(12,2);not null"`
	ImageURL          *string                  `gorm:"column:image_url"`
	ComponentCategory *enums.ComponentCategory `gorm:"column:component_category;type:text"`
	CompatibilityTags pq.StringArray           `gorm:"column:compatibility_tags;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive          bool                     `gorm:"column:is_active;not null;default:true"`
	Inventory         *InventoryItem           `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
