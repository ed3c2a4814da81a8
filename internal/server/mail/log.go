package mail

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/users"
)

// LogMailer writes the links to the log instead of sending anything. Used
// when no SendGrid API key is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("module", "mail")}
}

func (m *LogMailer) SendConfirmationEmail(ctx context.Context, user *users.User, redirectURL string) error {
	m.logger.Info(ctx, "confirmation email (log driver)",
		"to", user.Email, "link", confirmationLink(redirectURL, user.ConfirmationToken))
	return nil
}

func (m *LogMailer) SendPasswordResetLink(ctx context.Context, user *users.User, redirectURL string) error {
	m.logger.Info(ctx, "password reset email (log driver)",
		"to", user.Email, "link", confirmationLink(redirectURL, user.ConfirmationToken))
	return nil
}
