package orders

import (
	"context"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const sellerItemExistsClause = "EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = orders.id AND i.seller_id = ?)"

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Order], error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	return r.paginate(ctx, qb, params)
}

func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{}).Where("buyer_id = ?", buyerID)
	return r.paginate(ctx, qb, params)
}

func (r *repository) ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{}).Where(sellerItemExistsClause, sellerID)
	return r.paginate(ctx, qb, params)
}

func (r *repository) paginate(ctx context.Context, qb *gorm.DB, params pagination.Params) (*pagination.Page[models.Order], error) {
	params = params.Normalize(pagination.DefaultPageSize)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Order
	err := qb.
		Preload("Items").
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
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	type statusCount struct {
		Status enums.OrderStatus
		Count  int64
	}
	var counts []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		ByStatus:         map[enums.OrderStatus]int64{},
		DeliveredRevenue: decimal.Zero,
	}
	for _, row := range counts {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	var revenue decimal.NullDecimal
	err = r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("SUM(total)").
		Where("status = ?", enums.OrderStatusDelivered).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue.Valid {
		stats.DeliveredRevenue = revenue.Decimal
	}
	return stats, nil
}

type loyaltyLedgerImpl struct{}

// NewLoyaltyLedger exposes the default loyalty balance implementation.
func NewLoyaltyLedger() LoyaltyLedger {
	return loyaltyLedgerImpl{}
}

func (loyaltyLedgerImpl) Balance(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	if tx == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for loyalty balance")
	}
	var balance int
	err := tx.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("loyalty_points", &balance).Error
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Adjust applies a guarded delta: debits that would push the balance negative
// affect zero rows and report false.
func (loyaltyLedgerImpl) Adjust(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) (bool, error) {
	if delta == 0 {
		return true, nil
	}
	if tx == nil {
		return false, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for loyalty adjustment")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE users
		SET loyalty_points = loyalty_points + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND loyalty_points + ? >= 0
	`, delta, userID, delta)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
