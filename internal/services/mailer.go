package services

import (
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"MimiPlatform/internal/config"
)

// Mailer delivers transactional email.
type Mailer interface {
	Send(to, subject, body string) error
}

type ResendMailer struct {
	client *resend.Client
	from   string
	log    *slog.Logger
}

// NewMailer returns a Resend mailer when an API key is configured and a
// log-only mailer otherwise.
func NewMailer(cfg config.EmailConfig, log *slog.Logger) Mailer {
	if cfg.ResendAPIKey == "" {
		log.Warn("RESEND_API_KEY is empty, emails will only be logged")
		return NewLogMailer(log)
	}
	log.Info("email service initialized", "provider", "resend", "from", cfg.From, "api_key", config.Mask(cfg.ResendAPIKey))
	return &ResendMailer{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.From,
		log:    log,
	}
}

func (m *ResendMailer) Send(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    renderEmail(subject, body),
	}
	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	m.log.Debug("email sent", "to", to, "id", sent.Id)
	return nil
}

// LogMailer only logs outgoing email.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) LogMailer {
	return LogMailer{log: log}
}

func (m LogMailer) Send(to, subject, body string) error {
	m.log.Info("email (not sent)", "to", to, "subject", subject)
	return nil
}

func renderEmail(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>%s</h2>
        <p>%s</p>
        <p style="margin-top: 30px; font-size: 12px; color: #666;">This is an automated message, please do not reply.</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(body))
}
