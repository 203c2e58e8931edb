package users

import (
	"context"
	"strings"
	"time"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repo bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email, matched
// case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users, optionally filtered by role.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.User], error) {
	params = params.Normalize(pagination.DefaultPageSize)

	qb := r.db.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		qb = qb.Where("role = ?", *filters.Role)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.User
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

// UpdateFields applies a partial column update to the user row.
func (r *Repository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// Delete removes the user row entirely.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

// Stats aggregates account counts by role and status.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	type roleCount struct {
		Role  enums.UserRole
		Count int64
	}
	var roles []roleCount
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&roles).Error
	if err != nil {
		return nil, err
	}

	type statusCount struct {
		Status enums.UserStatus
		Count  int64
	}
	var statuses []statusCount
	err = r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statuses).Error
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		ByRole:   map[enums.UserRole]int64{},
		ByStatus: map[enums.UserStatus]int64{},
	}
	for _, row := range roles {
		stats.ByRole[row.Role] = row.Count
		stats.Total += row.Count
	}
	for _, row := range statuses {
		stats.ByStatus[row.Status] = row.Count
	}
	return stats, nil
}
