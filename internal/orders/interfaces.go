package orders

import (
	"context"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Order], error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Stats(ctx context.Context) (*Stats, error)
}

// LoyaltyLedger mutates buyer loyalty balances inside the order transaction.
type LoyaltyLedger interface {
	Balance(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	Adjust(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) (bool, error)
}
