package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
)

// Order is an immutable-at-creation snapshot of a checkout.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	BuyerID        uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null;index:idx_orders_buyer"`
	BuyerName      string            `gorm:"column:buyer_name;not null"`
	BuyerEmail     string            `gorm:"column:buyer_email;not null"`
	Address        string            `gorm:"column:address;not null"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee    decimal.Decimal   `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	Total          decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	RedeemedPoints int               `gorm:"column:redeemed_points;not null;default:0"`
	PointsEarned   int               `gorm:"column:points_earned;not null;default:0"`
	Status         enums.OrderStatus `gorm:"column:status;not null;index:idx_orders_status"`
	ReceiptURL     string            `gorm:"column:receipt_url"`
	PaidAt         *time.Time        `gorm:"column:paid_at"`
	DeliveredAt    *time.Time        `gorm:"column:delivered_at"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a frozen line item, decoupled from live Product mutations.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index:idx_order_items_order"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	SellerID    uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index:idx_order_items_seller"`
	SellerName  string          `gorm:"column:seller_name;not null"`
	Qty         int             `gorm:"column:qty;not null"`
	PricePerKg  decimal.Decimal `gorm:"column:price_per_kg;type:numeric(12,2);not null"`
}
