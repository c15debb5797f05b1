package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/logfrete/freight-api/internal/config"
	"go.uber.org/zap"
)

// Mailer sends notification emails. Delivery is best-effort: callers fire
// sends from goroutines and only log failures, the negotiation workflow
// never blocks on the gateway.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay
type SMTPMailer struct {
	cfg    *config.SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP-backed mailer
func NewSMTPMailer(cfg *config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers a single HTML message to the given recipients
func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	if !m.cfg.Enabled {
		m.logger.Debug("mail gateway disabled, skipping send",
			zap.Strings("to", to),
			zap.String("subject", subject),
		)
		return nil
	}
	if len(to) == 0 {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := buildMessage(m.cfg.From, to, subject, htmlBody)

	if err := smtp.SendMail(addr, auth, m.cfg.From, to, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("mail sent",
		zap.Strings("to", to),
		zap.String("subject", subject),
	)
	return nil
}

func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// NoopMailer discards all messages. Used in tests and when SMTP is not
// configured.
type NoopMailer struct{}

func (NoopMailer) Send(to []string, subject, htmlBody string) error { return nil }
