package notification

import (
	"context"
	"log/slog"
)

// LogDispatcher stands in when no mail transport is configured: it records
// what would have been sent.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "email not configured, message would be sent",
		"to", msg.To,
		"subject", msg.Subject,
		"body_bytes", len(msg.HTML))
	return nil
}

func (d *LogDispatcher) Transport() string { return "log" }

func (d *LogDispatcher) Configured() bool { return false }
