package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vendora/backend/internal/infrastructure/config"
)

// Mailer sends plain-text email
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// SMTPMailer delivers mail through the configured SMTP relay
type SMTPMailer struct {
	cfg config.NotificationConfig
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.NotificationConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send submits the message to the relay. net/smtp has no context
// support, so cancellation is only honored before the dial.
func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(to) == 0 {
		return fmt.Errorf("smtp: no recipients")
	}

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	msg := buildMessage(m.cfg.FromAddress, to, subject, body)
	if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, to, msg); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", strings.Join(to, ","), err)
	}
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
