package negotiations

import (
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenInput is a buyer's initial price request against a product.
type OpenInput struct {
	BuyerID        uuid.UUID
	BuyerName      string
	ProductID      uuid.UUID
	RequestedPrice decimal.Decimal
	Notes          string
}

// SellerAction enumerates what a seller can do to a negotiation.
type SellerAction string

const (
	SellerActionCounter SellerAction = "counter"
	SellerActionAccept  SellerAction = "accept"
	SellerActionReject  SellerAction = "reject"
)

// SellerUpdateInput carries a seller's counter/accept/reject move.
type SellerUpdateInput struct {
	NegotiationID uuid.UUID
	SellerID      uuid.UUID
	Action        SellerAction
	CounterPrice  *decimal.Decimal
	CounterNotes  *string
}

// ListFilters narrows admin negotiation listings.
type ListFilters struct {
	Status *enums.NegotiationStatus
}

// Stats aggregates the admin dashboard numbers.
type Stats struct {
	Total    int64                             `json:"total"`
	ByStatus map[enums.NegotiationStatus]int64 `json:"by_status"`
}
