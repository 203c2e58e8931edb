package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nivethan26/farmers-gate-backend/pkg/config"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/mail"
	"github.com/Nivethan26/farmers-gate-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordResetService drives the OTP-based forgot/reset flow.
type PasswordResetService interface {
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type otpStore interface {
	StoreOTP(ctx context.Context, email, code string, ttl time.Duration) error
	GetOTP(ctx context.Context, email string) (string, error)
	DeleteOTP(ctx context.Context, email string) error
}

type resetUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// PasswordResetParams bundles the reset flow dependencies.
type PasswordResetParams struct {
	UserRepo       resetUserRepository
	OTPStore       otpStore
	Mailer         mail.Mailer
	OTPConfig      config.OTPConfig
	PasswordConfig config.PasswordConfig
}

type passwordResetService struct {
	users       resetUserRepository
	otps        otpStore
	mailer      mail.Mailer
	otpCfg      config.OTPConfig
	passwordCfg config.PasswordConfig
}

// NewPasswordResetService builds the OTP reset service.
func NewPasswordResetService(params PasswordResetParams) (PasswordResetService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.OTPStore == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	return &passwordResetService{
		users:       params.UserRepo,
		otps:        params.OTPStore,
		mailer:      params.Mailer,
		otpCfg:      params.OTPConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// ForgotPassword issues a short-lived OTP. Unknown emails are treated as
// success so the endpoint cannot be used to probe for accounts.
func (s *passwordResetService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	code, err := security.GenerateOTP(s.otpCfg.Digits)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	if err := s.otps.StoreOTP(ctx, email, code, s.otpCfg.TTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	if err := s.mailer.SendPasswordResetCode(ctx, user.Email, user.Name, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send reset mail")
	}
	return nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and code are required")
	}

	stored, err := s.otps.GetOTP(ctx, email)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset code")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(req.Code)) != 1 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset code")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset code")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}

	// the code is single-use
	if err := s.otps.DeleteOTP(ctx, email); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete otp")
	}
	return nil
}
