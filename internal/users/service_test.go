package users

import (
	"context"
	"testing"

	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserStore struct {
	byID      map[uuid.UUID]*models.User
	updates   map[string]any
	deleted   []uuid.UUID
	updateErr error
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byID: map[uuid.UUID]*models.User{}}
}

func (s *stubUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *stubUserStore) List(_ context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.User], error) {
	params = params.Normalize(pagination.DefaultPageSize)
	var rows []models.User
	for _, u := range s.byID {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		rows = append(rows, *u)
	}
	page := pagination.NewPage(rows, params, int64(len(rows)))
	return &page, nil
}

func (s *stubUserStore) UpdateFields(_ context.Context, id uuid.UUID, updates map[string]any) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = updates
	u, ok := s.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		u.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		u.Email = email
	}
	return nil
}

func (s *stubUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	delete(s.byID, id)
	return nil
}

func (s *stubUserStore) Stats(_ context.Context) (*Stats, error) {
	stats := &Stats{
		ByRole:   map[enums.UserRole]int64{},
		ByStatus: map[enums.UserStatus]int64{},
	}
	for _, u := range s.byID {
		stats.ByRole[u.Role]++
		stats.ByStatus[u.Status]++
		stats.Total++
	}
	return stats, nil
}

func seedUser(store *stubUserStore, role enums.UserRole) *models.User {
	u := &models.User{
		ID:           uuid.New(),
		Role:         role,
		Status:       enums.UserStatusActive,
		Name:         "Kasun Perera",
		Email:        "kasun@example.lk",
		PasswordHash: "x",
	}
	store.byID[u.ID] = u
	return u
}

func newTestService(t *testing.T, store userStore) Service {
	t.Helper()
	svc, err := NewService(store)
	require.NoError(t, err)
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestGetSelfAndAdminOnly(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	ctx := context.Background()
	buyer := seedUser(store, enums.UserRoleBuyer)

	dto, err := svc.Get(ctx, buyer.ID, enums.UserRoleBuyer, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, buyer.Email, dto.Email)

	_, err = svc.Get(ctx, uuid.New(), enums.UserRoleAdmin, buyer.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), enums.UserRoleBuyer, buyer.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateSharedFields(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	buyer := seedUser(store, enums.UserRoleBuyer)

	name := "Kasun P."
	email := "Kasun.New@Example.LK"
	dto, err := svc.Update(context.Background(), UpdateInput{
		ActorID:   buyer.ID,
		ActorRole: enums.UserRoleBuyer,
		TargetID:  buyer.ID,
		Name:      &name,
		Email:     &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kasun P.", dto.Name)
	assert.Equal(t, "kasun.new@example.lk", dto.Email)
}

func TestUpdateRejectsOtherAccounts(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	buyer := seedUser(store, enums.UserRoleBuyer)
	other := seedUser(store, enums.UserRoleBuyer)

	name := "imposter"
	_, err := svc.Update(context.Background(), UpdateInput{
		ActorID:   other.ID,
		ActorRole: enums.UserRoleBuyer,
		TargetID:  buyer.ID,
		Name:      &name,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateRejectsMismatchedRolePatch(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	buyer := seedUser(store, enums.UserRoleBuyer)

	farm := "Green Valley"
	_, err := svc.Update(context.Background(), UpdateInput{
		ActorID:   buyer.ID,
		ActorRole: enums.UserRoleBuyer,
		TargetID:  buyer.ID,
		Seller:    &SellerProfilePatch{FarmName: &farm},
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestBuyerPatchWritesAllowedColumnsOnly(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	buyer := seedUser(store, enums.UserRoleBuyer)

	district := "Kandy"
	categories := []string{"vegetables", "fruits"}
	_, err := svc.Update(context.Background(), UpdateInput{
		ActorID:   buyer.ID,
		ActorRole: enums.UserRoleBuyer,
		TargetID:  buyer.ID,
		Buyer: &BuyerProfilePatch{
			District:            &district,
			PreferredCategories: &categories,
		},
	})
	require.NoError(t, err)

	assert.Contains(t, store.updates, "district")
	assert.Contains(t, store.updates, "preferred_categories")
	assert.NotContains(t, store.updates, "role")
	assert.NotContains(t, store.updates, "loyalty_points")
}

func TestAdminOverrideRequiresAdmin(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	buyer := seedUser(store, enums.UserRoleBuyer)
	ctx := context.Background()

	status := enums.UserStatusInactive
	_, err := svc.Update(ctx, UpdateInput{
		ActorID:     buyer.ID,
		ActorRole:   enums.UserRoleBuyer,
		TargetID:    buyer.ID,
		AdminFields: &AdminOverridePatch{Status: &status},
	})
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.Update(ctx, UpdateInput{
		ActorID:     uuid.New(),
		ActorRole:   enums.UserRoleAdmin,
		TargetID:    buyer.ID,
		AdminFields: &AdminOverridePatch{Status: &status},
	})
	require.NoError(t, err)
	assert.Equal(t, status, store.updates["status"])
}

func TestAdminOverrideValidation(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	buyer := seedUser(store, enums.UserRoleBuyer)

	bad := enums.UserRole("superuser")
	_, err := svc.Update(context.Background(), UpdateInput{
		ActorID:     uuid.New(),
		ActorRole:   enums.UserRoleAdmin,
		TargetID:    buyer.ID,
		AdminFields: &AdminOverridePatch{Role: &bad},
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	negative := -5
	_, err = svc.Update(context.Background(), UpdateInput{
		ActorID:     uuid.New(),
		ActorRole:   enums.UserRoleAdmin,
		TargetID:    buyer.ID,
		AdminFields: &AdminOverridePatch{LoyaltyPoints: &negative},
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteIsAdminOnly(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	buyer := seedUser(store, enums.UserRoleBuyer)
	ctx := context.Background()

	err := svc.Delete(ctx, enums.UserRoleSeller, buyer.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	require.NoError(t, svc.Delete(ctx, enums.UserRoleAdmin, buyer.ID))
	assert.Equal(t, []uuid.UUID{buyer.ID}, store.deleted)

	err = svc.Delete(ctx, enums.UserRoleAdmin, buyer.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestListFiltersInvalidRole(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)

	bad := enums.UserRole("ghost")
	_, err := svc.List(context.Background(), ListFilters{Role: &bad}, pagination.Params{Page: 1})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestStatsCounts(t *testing.T) {
	store := newStubUserStore()
	svc := newTestService(t, store)
	seedUser(store, enums.UserRoleBuyer)
	seedUser(store, enums.UserRoleBuyer)
	seedUser(store, enums.UserRoleSeller)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByRole[enums.UserRoleBuyer])
	assert.Equal(t, int64(1), stats.ByRole[enums.UserRoleSeller])
}
