package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/carecube/internal/auth/mail"
)

// newMailer picks the SMTP relay when one is configured and falls back to
// logging messages, which is what local development wants.
func newMailer(cfg Config, logger *slog.Logger) (mail.Mailer, error) {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, verification emails will only be logged")
		return mail.LogMailer{Logger: logger}, nil
	}

	m, err := mail.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		return nil, fmt.Errorf("failed to configure SMTP mailer: %w", err)
	}
	return m, nil
}
