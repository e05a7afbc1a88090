// Package adapters はapplicationsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"jobtrack_backend/internal/feature/applications/domain/entity"
	"jobtrack_backend/internal/feature/applications/usecase"
)

// applicationGorm はApplicationRepositoryインターフェースのGORM実装です。
// PostgreSQL と SQLite の両方で動作します。
type applicationGorm struct {
	db *gorm.DB
}

// applicationGormがApplicationRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ApplicationRepository = (*applicationGorm)(nil)

// NewApplicationRepository は指定されたgorm.DB接続でapplicationGormの新しいインスタンスを生成します。
func NewApplicationRepository(db *gorm.DB) *applicationGorm {
	return &applicationGorm{db: db}
}

// ApplicationModel は applications テーブルの行です。
type ApplicationModel struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       uint       `gorm:"not null;index"`
	CompanyName  string     `gorm:"size:255;not null"`
	Role         string     `gorm:"size:255;not null"`
	Status       string     `gorm:"size:16;not null;default:Applied;index"`
	AppliedDate  time.Time  `gorm:"not null"`
	Location     string     `gorm:"size:255;not null"`
	Notes        string     `gorm:"type:text;not null"`
	FollowUpDate *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"index"`
	UpdatedAt    time.Time
}

func (ApplicationModel) TableName() string {
	return "applications"
}

func toModel(e *entity.Application) ApplicationModel {
	return ApplicationModel{
		ID:           e.ID,
		UserID:       e.UserID,
		CompanyName:  e.CompanyName,
		Role:         e.Role,
		Status:       string(e.Status),
		AppliedDate:  e.AppliedDate.UTC(),
		Location:     e.Location,
		Notes:        e.Notes,
		FollowUpDate: utcPtr(e.FollowUpDate),
	}
}

func toEntity(m ApplicationModel) entity.Application {
	return entity.Application{
		ID:           m.ID,
		UserID:       m.UserID,
		CompanyName:  m.CompanyName,
		Role:         m.Role,
		Status:       entity.Status(m.Status),
		AppliedDate:  m.AppliedDate.UTC(),
		Location:     m.Location,
		Notes:        m.Notes,
		FollowUpDate: utcPtr(m.FollowUpDate),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func toEntities(rows []ApplicationModel) []entity.Application {
	out := make([]entity.Application, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out
}

// Create は応募を追加し、生成されたIDとタイムスタンプをエンティティに書き戻します。
func (r *applicationGorm) Create(ctx context.Context, app *entity.Application) error {
	if app == nil {
		return errors.New("application is nil")
	}
	m := toModel(app)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*app = toEntity(m)
	return nil
}

// ListByUser は所有者で絞り込んだ一覧を返します。
// 検索語は会社名または職種への部分一致（大文字小文字を区別しない）です。
func (r *applicationGorm) ListByUser(ctx context.Context, userID uint, filter entity.ListFilter) ([]entity.Application, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		q = q.Where(`(LOWER(company_name) LIKE ? ESCAPE '\' OR LOWER(role) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Sort == entity.SortOldest {
		q = q.Order("created_at ASC").Order("id ASC")
	} else {
		q = q.Order("created_at DESC").Order("id DESC")
	}

	var rows []ApplicationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// FindByID は所有者を問わずIDで応募を取得します。
func (r *applicationGorm) FindByID(ctx context.Context, id uint) (*entity.Application, error) {
	var m ApplicationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	app := toEntity(m)
	return &app, nil
}

// FindOwned はIDと所有者の両方が一致する応募を取得します。
func (r *applicationGorm) FindOwned(ctx context.Context, userID, id uint) (*entity.Application, error) {
	var m ApplicationModel
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrNotFound
		}
		return nil, err
	}
	app := toEntity(m)
	return &app, nil
}

// UpdateOwned は WHERE id AND user_id を条件とする1回の UPDATE でパッチを適用し、更新後の応募を返します。
func (r *applicationGorm) UpdateOwned(ctx context.Context, userID, id uint, patch entity.Patch, now time.Time) (*entity.Application, error) {
	res := r.db.WithContext(ctx).
		Model(&ApplicationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(patchColumns(patch, now))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, usecase.ErrNotFound
	}
	return r.FindOwned(ctx, userID, id)
}

// patchColumns はパッチの指定フィールドだけを更新カラムに変換します。
func patchColumns(p entity.Patch, now time.Time) map[string]any {
	cols := map[string]any{"updated_at": now.UTC()}
	if p.CompanyName != nil {
		cols["company_name"] = *p.CompanyName
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.AppliedDate != nil {
		cols["applied_date"] = p.AppliedDate.UTC()
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	switch {
	case p.ClearFollowUpDate:
		cols["follow_up_date"] = nil
	case p.FollowUpDate != nil:
		cols["follow_up_date"] = p.FollowUpDate.UTC()
	}
	return cols
}

// DeleteOwned は WHERE id AND user_id を条件とする1回の DELETE で応募を削除します。
func (r *applicationGorm) DeleteOwned(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&ApplicationModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

// CountByStatus はユーザーの応募を GROUP BY status で集計します。
func (r *applicationGorm) CountByStatus(ctx context.Context, userID uint) (map[entity.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&ApplicationModel{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[entity.Status]int64, len(rows))
	for _, row := range rows {
		out[entity.Status(row.Status)] = row.Count
	}
	return out, nil
}

// ListFollowUpsBetween は follow_up_date が from 以上 to 以下の応募を日時の昇順で返します。
func (r *applicationGorm) ListFollowUpsBetween(ctx context.Context, userID uint, from, to time.Time) ([]entity.Application, error) {
	var rows []ApplicationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("follow_up_date IS NOT NULL AND follow_up_date >= ? AND follow_up_date <= ?", from.UTC(), to.UTC()).
		Order("follow_up_date ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// escapeLike は LIKE のワイルドカードとエスケープ文字をリテラルとして扱えるようにします。
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
