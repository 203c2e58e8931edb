package mail

import (
	"context"

	"github.com/Nivethan26/farmers-gate-backend/pkg/config"
	"github.com/Nivethan26/farmers-gate-backend/pkg/logger"
)

// Mailer delivers transactional mail. Delivery providers are swappable; the
// domain only depends on this interface.
type Mailer interface {
	SendPasswordResetCode(ctx context.Context, to, name, code string) error
}

// LogMailer writes outbound mail to the structured log instead of sending it.
// Used in dev and test environments.
type LogMailer struct {
	cfg  config.MailConfig
	logg *logger.Logger
}

func NewLogMailer(cfg config.MailConfig, logg *logger.Logger) *LogMailer {
	return &LogMailer{cfg: cfg, logg: logg}
}

func (m *LogMailer) SendPasswordResetCode(ctx context.Context, to, name, code string) error {
	if m.logg == nil {
		return nil
	}
	ctx = m.logg.WithFields(ctx, map[string]any{
		"mail_from": m.cfg.FromAddress,
		"mail_to":   to,
		"mail_kind": "password_reset_code",
	})
	m.logg.Info(ctx, "password reset code issued")
	return nil
}
