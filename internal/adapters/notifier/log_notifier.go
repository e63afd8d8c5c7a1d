package notifier

import (
	"context"
	"log/slog"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/middleware"
)

// LogNotifier writes status-change events to the structured log. Used when no
// SMTP host is configured and as a stand-in during development.
type LogNotifier struct{}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

var _ portssvc.Notifier = (*LogNotifier)(nil)

// NotifyStatusChange logs the event instead of delivering it.
func (n *LogNotifier) NotifyStatusChange(ctx context.Context, event domain.RequestStatusEvent) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	attrs := []any{
		slog.String("request_id", event.RequestID),
		slog.String("new_status", string(event.NewStatus)),
		slog.String("requester_id", event.RequesterID),
		slog.String("amount", event.Amount.String()),
	}
	if event.NextLevel != nil {
		attrs = append(attrs, slog.String("next_level", string(*event.NextLevel)))
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}

	logger.Info("Request status changed", attrs...)
	return nil
}
