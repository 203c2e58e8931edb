package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
)

// ActiveNegotiationConstraint names the partial unique index guaranteeing at
// most one open/countered negotiation per (product, buyer) pair.
const ActiveNegotiationConstraint = "idx_negotiations_active_per_pair"

// Negotiation is a per-product, per-buyer bargaining thread.
type Negotiation struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	ProductID      uuid.UUID               `gorm:"column:product_id;type:uuid;not null;index:idx_negotiations_product"`
	ProductName    string                  `gorm:"column:product_name;not null"`
	BuyerID        uuid.UUID               `gorm:"column:buyer_id;type:uuid;not null;index:idx_negotiations_buyer"`
	BuyerName      string                  `gorm:"column:buyer_name;not null"`
	SellerID       uuid.UUID               `gorm:"column:seller_id;type:uuid;not null;index:idx_negotiations_seller"`
	SellerName     string                  `gorm:"column:seller_name;not null"`
	CurrentPrice   decimal.Decimal         `gorm:"column:current_price;type:numeric(12,2);not null"`
	RequestedPrice decimal.Decimal         `gorm:"column:requested_price;type:numeric(12,2);not null"`
	Notes          string                  `gorm:"column:notes"`
	Status         enums.NegotiationStatus `gorm:"column:status;not null;index:idx_negotiations_status"`
	CounterPrice   *decimal.Decimal        `gorm:"column:counter_price;type:numeric(12,2)"`
	CounterNotes   *string                 `gorm:"column:counter_notes"`
	AgreedPrice    *decimal.Decimal        `gorm:"column:agreed_price;type:numeric(12,2)"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
