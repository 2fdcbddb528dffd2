package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"dtmapi/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrIncompleteConfig = errors.New("SMTP configuration is incomplete")

// Sender delivers one HTML message.
type Sender interface {
	Send(ctx context.Context, to, subject, bodyHTML string) error
}

// SMTPSender sends mail through an SMTP server.
type SMTPSender struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewSMTPSender creates a sender. Secure enables implicit TLS.
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.Secure {
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}
	return &SMTPSender{cfg: cfg, dialer: d, logger: logger.Named("SMTPSender")}
}

// Send delivers one HTML message, giving up when ctx is done.
func (s *SMTPSender) Send(ctx context.Context, to, subject, bodyHTML string) error {
	if s.cfg.Host == "" || s.cfg.From == "" {
		return ErrIncompleteConfig
	}
	if to == "" {
		return errors.New("no recipient provided for email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", bodyHTML)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("Email sending cancelled", zap.String("to", to), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("Failed to send email", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	s.logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
