// AngelaMos | 2026
// log.go

package notify

import (
	"context"
	"log/slog"
)

// LogSender records emails instead of sending them. Used when no mail
// provider is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, to, subject, text, _ string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "email suppressed",
		"to", to,
		"subject", subject,
		"body", text,
	)
	return nil
}
