package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
)

// Product represents a seller's marketplace listing.
type Product struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	SellerID           uuid.UUID        `gorm:"column:seller_id;type:uuid;not null;index:idx_products_seller"`
	SellerName         string           `gorm:"column:seller_name;not null"`
	Name               string           `gorm:"column:name;not null"`
	Category           string           `gorm:"column:category;not null;index:idx_products_category"`
	PricePerKg         decimal.Decimal  `gorm:"column:price_per_kg;type:numeric(12,2);not null"`
	SupplyType         enums.SupplyType `gorm:"column:supply_type;not null"`
	LocationDistrict   string           `gorm:"column:location_district;index:idx_products_district"`
	Image              *string          `gorm:"column:image"`
	StockQty           int              `gorm:"column:stock_qty;not null;default:0"`
	Description        string           `gorm:"column:description"`
	NegotiationEnabled bool             `gorm:"column:negotiation_enabled;not null;default:false"`
	ExpiresOn          *time.Time       `gorm:"column:expires_on"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
