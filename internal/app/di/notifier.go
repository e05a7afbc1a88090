package di

import (
	"go.uber.org/zap"

	"jobtrack_backend/internal/config"
	followupusecase "jobtrack_backend/internal/feature/followup/usecase"
	"jobtrack_backend/internal/platform/notify"
)

// NewNotifier returns an SMTP notifier when SMTP_HOST is set, otherwise a log-only notifier.
func NewNotifier(cfg *config.Config, logger *zap.Logger) followupusecase.Notifier {
	if cfg.MailEnabled() {
		from := cfg.SMTPFrom
		if from == "" {
			from = cfg.SMTPUsername
		}
		logger.Info("follow-up reminders will be emailed", zap.String("smtp_host", cfg.SMTPHost))
		return notify.NewMailNotifier(notify.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     from,
		})
	}
	return notify.NewLogNotifier(logger)
}
