package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"

	"sjsage522/topicworker/logger"
)

// ErrNotConfigured is returned when sender, receiver or password is missing
var ErrNotConfigured = errors.New("missing email credentials")

// SMTPConfig holds the mail server settings
type SMTPConfig struct {
	Host          string
	Port          int
	SenderEmail   string
	ReceiverEmail string
	AppPassword   string
}

// SMTPMailer sends mail through an SMTP server with PLAIN authentication.
// STARTTLS is negotiated whenever the server offers it.
type SMTPMailer struct {
	config SMTPConfig
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSMTPMailer creates a mailer for config
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Configured reports whether all credentials are present
func (m *SMTPMailer) Configured() bool {
	return m.config.SenderEmail != "" && m.config.ReceiverEmail != "" && m.config.AppPassword != ""
}

func (m *SMTPMailer) newMessage(subject, htmlBody string) *email.Email {
	mail := email.NewEmail()
	mail.From = m.config.SenderEmail
	mail.To = []string{m.config.ReceiverEmail}
	mail.Subject = subject
	mail.HTML = []byte(htmlBody)
	return mail
}

// Send delivers an HTML message to the configured receiver
func (m *SMTPMailer) Send(ctx context.Context, subject, htmlBody string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := m.newMessage(subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	err := m.send(mail, addr, smtp.PlainAuth("", m.config.SenderEmail, m.config.AppPassword, m.config.Host))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = m.send(mail, addr, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.ForNotifier().Info().
		Str("subject", subject).
		Str("to", m.config.ReceiverEmail).
		Msg("Email notification sent")
	return nil
}
