package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/Nivethan26/farmers-gate-backend/internal/users"
	"github.com/Nivethan26/farmers-gate-backend/pkg/config"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/logger"
	"github.com/Nivethan26/farmers-gate-backend/pkg/security"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegisterService(t *testing.T) (RegisterService, *db.Client) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "register-test", Level: zerolog.Disabled})
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name()),
	}, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.DB().AutoMigrate(&models.User{}))

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)
	return svc, client
}

func TestRegisterCreatesHashedUser(t *testing.T) {
	svc, client := newRegisterService(t)
	district := "Kandy"

	dto, err := svc.Register(context.Background(), RegisterRequest{
		Role:     enums.UserRoleBuyer,
		Name:     "Kasun Perera",
		Email:    "Kasun@Example.LK",
		Password: "hunter2secret",
		Buyer:    &users.BuyerProfilePatch{District: &district},
	})
	require.NoError(t, err)

	assert.Equal(t, "kasun@example.lk", dto.Email)
	assert.Equal(t, enums.UserRoleBuyer, dto.Role)
	assert.Equal(t, enums.UserStatusActive, dto.Status)
	require.NotNil(t, dto.District)
	assert.Equal(t, "Kandy", *dto.District)

	stored, err := users.NewRepository(client.DB()).FindByEmail(context.Background(), "kasun@example.lk")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2secret", stored.PasswordHash)

	ok, err := security.VerifyPassword("hunter2secret", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newRegisterService(t)
	ctx := context.Background()

	req := RegisterRequest{
		Role:     enums.UserRoleSeller,
		Name:     "Nimal",
		Email:    "nimal@example.lk",
		Password: "hunter2secret",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	req.Email = "NIMAL@example.lk"
	_, err = svc.Register(ctx, req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterRejectsAdminRoleAndMismatchedProfile(t *testing.T) {
	svc, _ := newRegisterService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Role:     enums.UserRoleAdmin,
		Name:     "Root",
		Email:    "root@example.lk",
		Password: "hunter2secret",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	farm := "Green Valley"
	_, err = svc.Register(ctx, RegisterRequest{
		Role:     enums.UserRoleBuyer,
		Name:     "Kasun",
		Email:    "kasun@example.lk",
		Password: "hunter2secret",
		Seller:   &users.SellerProfilePatch{FarmName: &farm},
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
