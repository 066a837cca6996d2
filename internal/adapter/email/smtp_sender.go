package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/HamzaAshfaq01/sellsgoods/internal/app/config"
	"github.com/HamzaAshfaq01/sellsgoods/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

type EmailSender interface {
	Send(ctx context.Context, to []string, subject, bodyText string) error
}

type smtpSender struct {
	cfg config.SMTPConfig
	log logger.Logger
	d   *gomail.Dialer
}

func NewSMTPSender(cfg config.SMTPConfig, log logger.Logger) (EmailSender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SMTP host, port, and sender email must be configured")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}

	return &smtpSender{cfg: cfg, log: log, d: dialer}, nil
}

func (s *smtpSender) Send(ctx context.Context, to []string, subject, bodyText string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients provided for email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SenderEmail)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", bodyText)

	if err := s.d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %v: %w", to, err)
	}
	return nil
}

// NoopSender is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, to []string, subject, bodyText string) error {
	return nil
}
