// Package mailer submits outbound mail through an authenticated SMTP relay.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/affanstats/Product-Presenter/internal/config"
)

// Mailer sends plain-text mail via STARTTLS with PLAIN authentication.
// Every send is attempted exactly once; there are no retries.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	sender   string
	logger   *slog.Logger

	// send is swappable for tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// New creates a mailer from relay configuration.
func New(cfg config.MailConfig, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		sender:   cfg.Sender,
		logger:   logger,
		send:     smtp.SendMail,
	}
}

// Send submits one message. With no relay host configured the message
// is logged instead of sent, so local development does not need SMTP
// credentials.
func (m *Mailer) Send(recipient, subject, body string) error {
	if m.host == "" {
		m.logger.Info("mail relay not configured, logging message instead",
			"to", recipient,
			"subject", subject,
		)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.sender, recipient, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := m.send(addr, auth, m.sender, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}
