package negotiations

import (
	"context"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for negotiations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, negotiation *models.Negotiation) (*models.Negotiation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Negotiation, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Negotiation], error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Negotiation], error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Negotiation], error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a negotiations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, negotiation *models.Negotiation) (*models.Negotiation, error) {
	if err := r.db.WithContext(ctx).Create(negotiation).Error; err != nil {
		return nil, err
	}
	return negotiation, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Negotiation, error) {
	var negotiation models.Negotiation
	if err := r.db.WithContext(ctx).First(&negotiation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &negotiation, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Negotiation], error) {
	qb := r.db.WithContext(ctx).Model(&models.Negotiation{})
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	return r.paginate(ctx, qb, params)
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Negotiation], error) {
	qb := r.db.WithContext(ctx).Model(&models.Negotiation{}).Where("buyer_id = ?", buyerID)
	return r.paginate(ctx, qb, params)
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Negotiation], error) {
	qb := r.db.WithContext(ctx).Model(&models.Negotiation{}).Where("seller_id = ?", sellerID)
	return r.paginate(ctx, qb, params)
}

func (r *repository) paginate(ctx context.Context, qb *gorm.DB, params pagination.Params) (*pagination.Page[models.Negotiation], error) {
	params = params.Normalize(pagination.DefaultPageSize)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Negotiation
	err := qb.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	page := pagination.NewPage(rows, params, total)
	return &page, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Negotiation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	type statusCount struct {
		Status enums.NegotiationStatus
		Count  int64
	}
	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Negotiation{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: map[enums.NegotiationStatus]int64{}}
	for _, row := range counts {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}
	return stats, nil
}
