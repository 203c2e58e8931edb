package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines account management operations.
type Service interface {
	Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetID uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, input UpdateInput) (*UserDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[UserDTO], error)
	Delete(ctx context.Context, actorRole enums.UserRole, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
}

type userStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.User], error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	store userStore
}

// NewService builds a users service on top of the repository.
func NewService(store userStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("users store is required")
	}
	return &service{store: store}, nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, targetID uuid.UUID) (*UserDTO, error) {
	if actorRole != enums.UserRoleAdmin && actorID != targetID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "profile is not visible to this account")
	}
	user, err := s.load(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*UserDTO, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	isAdmin := input.ActorRole == enums.UserRoleAdmin
	if !isAdmin && input.ActorID != input.TargetID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another account")
	}

	user, err := s.load(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		updates["email"] = email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}

	if err := applyRolePatch(user.Role, input, updates); err != nil {
		return nil, err
	}

	if input.AdminFields != nil {
		if !isAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can change role, status, or points")
		}
		if err := applyAdminPatch(*input.AdminFields, updates); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateFields(ctx, user.ID, updates); err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	updated, err := s.load(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[UserDTO], error) {
	if filters.Role != nil && !filters.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
	}
	page, err := s.store.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	dtos := make([]UserDTO, 0, len(page.Items))
	for i := range page.Items {
		dtos = append(dtos, *FromModel(&page.Items[i]))
	}
	mapped := pagination.Page[UserDTO]{
		Items: dtos,
		Page:  page.Page,
		Pages: page.Pages,
		Total: page.Total,
	}
	return &mapped, nil
}

func (s *service) Delete(ctx context.Context, actorRole enums.UserRole, id uuid.UUID) error {
	if actorRole != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins can delete accounts")
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user stats")
	}
	return stats, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

// applyRolePatch accepts only the patch block matching the target's role.
func applyRolePatch(role enums.UserRole, input UpdateInput, updates map[string]any) error {
	if input.Buyer != nil && role != enums.UserRoleBuyer {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer fields not allowed for this account")
	}
	if input.Seller != nil && role != enums.UserRoleSeller {
		return pkgerrors.New(pkgerrors.CodeValidation, "seller fields not allowed for this account")
	}
	if input.Agent != nil && role != enums.UserRoleAgent {
		return pkgerrors.New(pkgerrors.CodeValidation, "agent fields not allowed for this account")
	}
	if input.Admin != nil && role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeValidation, "admin fields not allowed for this account")
	}

	if input.Buyer != nil {
		input.Buyer.apply(updates)
	}
	if input.Seller != nil {
		input.Seller.apply(updates)
	}
	if input.Agent != nil {
		input.Agent.apply(updates)
	}
	if input.Admin != nil {
		input.Admin.apply(updates)
	}
	return nil
}

func applyAdminPatch(patch AdminOverridePatch, updates map[string]any) error {
	if patch.Role != nil {
		if !patch.Role.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		updates["role"] = *patch.Role
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		updates["status"] = *patch.Status
	}
	if patch.LoyaltyPoints != nil {
		if *patch.LoyaltyPoints < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "loyalty points cannot be negative")
		}
		updates["loyalty_points"] = *patch.LoyaltyPoints
	}
	return nil
}
