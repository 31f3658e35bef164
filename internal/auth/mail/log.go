package mail

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/carecube/pkg/slogx"
)

// LogMailer writes messages to the log instead of sending them. It is used
// in development and whenever no SMTP host is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	logger := m.Logger
	if logger == nil {
		logger = slogx.FromContext(ctx)
	}
	logger.Info("mail not sent, no smtp relay configured",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
