package orders

import (
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateInput captures a buyer checkout. Prices and seller identity are
// resolved server-side from the catalog, never taken from the client.
type CreateInput struct {
	BuyerID        uuid.UUID
	BuyerName      string
	BuyerEmail     string
	Address        string
	ReceiptURL     string
	RedeemedPoints int
	Items          []CreateItemInput
}

// CreateItemInput is one requested line.
type CreateItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// UpdateStatusInput carries a status transition request and its actor.
type UpdateStatusInput struct {
	OrderID   uuid.UUID
	Target    enums.OrderStatus
	ActorID   uuid.UUID
	ActorRole enums.UserRole
}

// ListFilters narrows admin order listings.
type ListFilters struct {
	Status *enums.OrderStatus
}

// Stats aggregates the admin dashboard numbers.
type Stats struct {
	Total            int64                       `json:"total"`
	ByStatus         map[enums.OrderStatus]int64 `json:"by_status"`
	DeliveredRevenue decimal.Decimal             `json:"delivered_revenue"`
}
