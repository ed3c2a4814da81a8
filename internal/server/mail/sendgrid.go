// Package mail delivers transactional email for account confirmation and
// password reset. The SendGrid driver is used when an API key is configured;
// otherwise the log driver prints the links, which is enough for local
// development.
package mail

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ledgerkeep/ledgerkeep/internal/logging"
	"github.com/ledgerkeep/ledgerkeep/internal/server/config"
	"github.com/ledgerkeep/ledgerkeep/internal/server/users"
)

// SendgridMailer sends via the SendGrid v3 API.
type SendgridMailer struct {
	client *sendgrid.Client
	from   string
	logger logging.Logger
}

func NewSendgridMailer(cfg *config.Config, logger logging.Logger) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:   cfg.MailFrom,
		logger: logger.With("module", "mail"),
	}
}

// confirmationLink appends the token to the caller-supplied redirect URL so
// the frontend page that opens it can submit the token back to the API.
func confirmationLink(redirectURL, token string) string {
	u, err := url.Parse(redirectURL)
	if err != nil || redirectURL == "" {
		return token
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func (m *SendgridMailer) send(ctx context.Context, user *users.User, subject, body string) error {
	from := sgmail.NewEmail("LedgerKeep", m.from)
	to := sgmail.NewEmail(user.FirstName+" "+user.LastName, user.Email)
	msg := sgmail.NewSingleEmail(from, subject, to, body, "<p>"+body+"</p>")

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d", resp.StatusCode)
	}

	m.logger.Debug(ctx, "email sent", "to", user.Email, "subject", subject)
	return nil
}

func (m *SendgridMailer) SendConfirmationEmail(ctx context.Context, user *users.User, redirectURL string) error {
	link := confirmationLink(redirectURL, user.ConfirmationToken)
	body := fmt.Sprintf("Hi %s, please confirm your account: %s", user.FirstName, link)
	return m.send(ctx, user, "Confirm your LedgerKeep account", body)
}

func (m *SendgridMailer) SendPasswordResetLink(ctx context.Context, user *users.User, redirectURL string) error {
	link := confirmationLink(redirectURL, user.ConfirmationToken)
	body := fmt.Sprintf("Hi %s, reset your password here: %s", user.FirstName, link)
	return m.send(ctx, user, "Reset your LedgerKeep password", body)
}
