package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/Nivethan26/farmers-gate-backend/pkg/auth"
	"github.com/Nivethan26/farmers-gate-backend/pkg/auth/session"
	"github.com/Nivethan26/farmers-gate-backend/pkg/config"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testJWTConfig = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "farmers-gate-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 60,
}

type stubUserRepo struct {
	byEmail   map[string]*models.User
	lastLogin *time.Time
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *stubUserRepo) UpdateLastLogin(_ context.Context, _ uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubSessionManager struct {
	generated  []string
	rotateErr  error
	revoked    []string
	lastAccess string
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-token", nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.lastAccess = oldAccessID
	return session.NewAccessID(), "rotated-refresh-token", nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func activeUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Role:         enums.UserRoleBuyer,
		Status:       enums.UserStatusActive,
		Name:         "Kasun",
		Email:        email,
		PasswordHash: hash,
	}
}

func newLoginService(t *testing.T, repo userRepository, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
	})
	require.NoError(t, err)
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected a coded error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestLoginIssuesTokenPair(t *testing.T) {
	user := activeUser(t, "kasun@example.lk", "hunter2secret")
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	sessions := &stubSessionManager{}
	svc := newLoginService(t, repo, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Kasun@Example.LK",
		Password: "hunter2secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, user.Email, resp.User.Email)
	require.NotNil(t, repo.lastLogin)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleBuyer, claims.Role)
	require.Len(t, sessions.generated, 1)
	assert.Equal(t, sessions.generated[0], claims.ID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	user := activeUser(t, "kasun@example.lk", "hunter2secret")
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	svc := newLoginService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "kasun@example.lk",
		Password: "wrong",
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginRejectsUnknownEmailAndInactiveAccount(t *testing.T) {
	inactive := activeUser(t, "nimal@example.lk", "hunter2secret")
	inactive.Status = enums.UserStatusInactive
	repo := &stubUserRepo{byEmail: map[string]*models.User{inactive.Email: inactive}}
	svc := newLoginService(t, repo, &stubSessionManager{})
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{Email: "missing@example.lk", Password: "x"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{Email: "nimal@example.lk", Password: "hunter2secret"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRotatesSession(t *testing.T) {
	user := activeUser(t, "kasun@example.lk", "hunter2secret")
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	sessions := &stubSessionManager{}
	svc := newLoginService(t, repo, sessions)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "hunter2secret"})
	require.NoError(t, err)

	resp, err := svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.Equal(t, "rotated-refresh-token", resp.RefreshToken)
	assert.Equal(t, sessions.generated[0], sessions.lastAccess)

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.NotEqual(t, sessions.generated[0], claims.ID)
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	user := activeUser(t, "kasun@example.lk", "hunter2secret")
	repo := &stubUserRepo{byEmail: map[string]*models.User{user.Email: user}}
	sessions := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := newLoginService(t, repo, sessions)
	ctx := context.Background()

	login, err := svc.Login(ctx, LoginRequest{Email: user.Email, Password: "hunter2secret"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "stolen",
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Refresh(ctx, RefreshRequest{AccessToken: "garbage", RefreshToken: "x"})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc := newLoginService(t, &stubUserRepo{byEmail: map[string]*models.User{}}, sessions)

	require.NoError(t, svc.Logout(context.Background(), "access-123"))
	assert.Equal(t, []string{"access-123"}, sessions.revoked)

	err := svc.Logout(context.Background(), " ")
	assertCode(t, err, pkgerrors.CodeUnauthorized)
}
