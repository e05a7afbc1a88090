// Package notify delivers follow-up reminders.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"jobtrack_backend/internal/feature/followup/domain/entity"
)

// LogNotifier writes one log line per reminder. It is the default when no SMTP host is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify never fails.
func (n *LogNotifier) Notify(_ context.Context, r entity.Reminder) error {
	n.logger.Info("follow-up reminder",
		zap.String("company", r.CompanyName),
		zap.String("role", r.Role),
		zap.String("user_email", r.UserEmail),
		zap.String("follow_up_date", r.FollowUpDate.UTC().Format(time.RFC3339)),
		zap.Uint("application_id", r.ApplicationID),
	)
	return nil
}
