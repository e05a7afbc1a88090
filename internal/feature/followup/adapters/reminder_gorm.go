// Package adapters はfollowupフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"jobtrack_backend/internal/feature/followup/domain/entity"
	"jobtrack_backend/internal/feature/followup/usecase"
)

// reminderGorm は全ユーザーを横断してフォローアップ対象を読み出します。
// この横断読み取りはスケジューラ専用で、HTTP からは到達しません。
type reminderGorm struct {
	db *gorm.DB
}

var _ usecase.ReminderRepository = (*reminderGorm)(nil)

// NewReminderRepository は reminderGorm を生成します。
func NewReminderRepository(db *gorm.DB) *reminderGorm {
	return &reminderGorm{db: db}
}

type reminderRow struct {
	ApplicationID uint
	CompanyName   string
	Role          string
	FollowUpDate  time.Time
	UserID        uint
	UserEmail     string
	UserName      string
}

// FindDueBetween は follow_up_date が [from, to] に入る応募を所有者情報付きで返します。
func (r *reminderGorm) FindDueBetween(ctx context.Context, from, to time.Time) ([]entity.Reminder, error) {
	var rows []reminderRow
	err := r.db.WithContext(ctx).
		Table("applications AS a").
		Select("a.id AS application_id, a.company_name, a.role, a.follow_up_date, a.user_id, u.email AS user_email, u.name AS user_name").
		Joins("JOIN users u ON u.id = a.user_id").
		Where("a.follow_up_date IS NOT NULL AND a.follow_up_date >= ? AND a.follow_up_date <= ?", from.UTC(), to.UTC()).
		Order("a.follow_up_date ASC").Order("a.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]entity.Reminder, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Reminder{
			ApplicationID: row.ApplicationID,
			CompanyName:   row.CompanyName,
			Role:          row.Role,
			FollowUpDate:  row.FollowUpDate.UTC(),
			UserID:        row.UserID,
			UserEmail:     row.UserEmail,
			UserName:      row.UserName,
		})
	}
	return out, nil
}
