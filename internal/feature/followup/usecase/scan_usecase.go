// Package usecase はフォローアップ通知のスキャン処理を提供します。
package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"jobtrack_backend/internal/feature/followup/domain/entity"
)

// Window はスキャン対象の期間です。
const Window = 24 * time.Hour

// ReminderRepository は期間内のフォローアップ対象を全ユーザー横断で取得します。
type ReminderRepository interface {
	FindDueBetween(ctx context.Context, from, to time.Time) ([]entity.Reminder, error)
}

// Notifier は1件のリマインダーを配信します。
type Notifier interface {
	Notify(ctx context.Context, r entity.Reminder) error
}

// ScanResult は1回のスキャンの集計です。
type ScanResult struct {
	Found    int
	Notified int
	Failed   int
}

// ScanUsecase は期間内のリマインダーを読み込み、通知を送ります。
type ScanUsecase struct {
	repo     ReminderRepository
	notifier Notifier
	logger   *zap.Logger
	clock    func() time.Time
}

// NewScanUsecase は ScanUsecase を生成します。clock が nil の場合は time.Now を使用します。
func NewScanUsecase(repo ReminderRepository, notifier Notifier, logger *zap.Logger, clock func() time.Time) *ScanUsecase {
	if clock == nil {
		clock = time.Now
	}
	return &ScanUsecase{repo: repo, notifier: notifier, logger: logger, clock: clock}
}

// Run は [now, now+24h] のリマインダーを1回スキャンします。
// 個々の通知失敗はログに記録して集計するだけで、処理は継続します。
// リポジトリの失敗のみエラーとして返します。
func (u *ScanUsecase) Run(ctx context.Context) (ScanResult, error) {
	from := u.clock().UTC()
	to := from.Add(Window)

	reminders, err := u.repo.FindDueBetween(ctx, from, to)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to load reminders: %w", err)
	}

	res := ScanResult{Found: len(reminders)}
	if res.Found == 0 {
		u.logger.Info("follow-up scan: nothing due", zap.Time("from", from), zap.Time("to", to))
		return res, nil
	}

	for _, r := range reminders {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := u.notifier.Notify(ctx, r); err != nil {
			res.Failed++
			u.logger.Warn("follow-up notify failed",
				zap.Uint("application_id", r.ApplicationID),
				zap.Uint("user_id", r.UserID),
				zap.Error(err),
			)
			continue
		}
		res.Notified++
	}

	u.logger.Info("follow-up scan finished",
		zap.Int("found", res.Found),
		zap.Int("notified", res.Notified),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
