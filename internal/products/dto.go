package product

import (
	"time"

	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category   string            `json:"category,omitempty"`
	District   string            `json:"district,omitempty"`
	SupplyType *enums.SupplyType `json:"supply_type,omitempty"`
	Search     string            `json:"search,omitempty"`
}

// CreateInput carries the seller-provided listing fields.
type CreateInput struct {
	Name               string
	Category           string
	PricePerKg         decimal.Decimal
	SupplyType         enums.SupplyType
	LocationDistrict   string
	Image              *string
	StockQty           int
	Description        string
	NegotiationEnabled bool
	ExpiresOn          *time.Time
}

// UpdateInput patches a listing; nil fields are left untouched.
type UpdateInput struct {
	Name               *string
	Category           *string
	PricePerKg         *decimal.Decimal
	SupplyType         *enums.SupplyType
	LocationDistrict   *string
	Image              *string
	StockQty           *int
	Description        *string
	NegotiationEnabled *bool
	ExpiresOn          *time.Time
}
