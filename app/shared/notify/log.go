package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log. It stands in until
// a mail transport is plugged behind the port.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Send(ctx context.Context, recipients []string, subject, body string) error {
	n.Logger.InfoContext(ctx, "Notification dispatched",
		slog.Any("recipients", recipients),
		slog.String("subject", subject),
		slog.Int("body_bytes", len(body)),
	)
	return nil
}
