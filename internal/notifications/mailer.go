// Package notifications sends the board's email notifications.
package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"mmorpgboard/internal/config"
	"mmorpgboard/internal/middleware"

	"gopkg.in/gomail.v2"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
	// Secret marks a body carrying a credential, such as a login code.
	Secret bool
}

// Mailer delivers a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer returns a mailer dialing host:port with the given credentials.
func NewSMTPMailer(host string, port int, user, password string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, password)}
}

// Send dials the relay and delivers msg.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Secret
// bodies are redacted unless revealSecrets is set.
type LogMailer struct {
	logger        *slog.Logger
	revealSecrets bool
}

// NewLogMailer returns a LogMailer writing to l, or to the global logger when l is nil.
func NewLogMailer(l *slog.Logger, revealSecrets bool) *LogMailer {
	if l == nil {
		l = middleware.Logger
	}
	return &LogMailer{logger: l, revealSecrets: revealSecrets}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	body := msg.Body
	if msg.Secret && !m.revealSecrets {
		body = "[redacted]"
	}
	m.logger.InfoContext(ctx, "email (dry run)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", body),
	)
	return nil
}

// NewMailer picks the transport from the config. Dry-run login codes are
// only written to the log in development and test.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.MailDryRun {
		return NewLogMailer(nil, cfg.Env == "development" || cfg.Env == "test")
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
}
