package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobtrack_backend/internal/feature/applications/domain/entity"
)

// FollowUpWindow はフォローアップ対象とみなす期間です。
const FollowUpWindow = 24 * time.Hour

// ApplicationRepository は応募レコードの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ApplicationRepository interface {
	// Create は新しい応募を保存し、ID とタイムスタンプを設定します。
	Create(ctx context.Context, app *entity.Application) error

	// ListByUser は指定ユーザーの応募をフィルタ・並び順に従って返します。
	ListByUser(ctx context.Context, userID uint, filter entity.ListFilter) ([]entity.Application, error)

	// FindByID は所有者を問わずIDで応募を取得します。存在しない場合は ErrNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.Application, error)

	// FindOwned は id と所有者の両方が一致する応募を返します。一致しない場合は ErrNotFound を返します。
	FindOwned(ctx context.Context, userID, id uint) (*entity.Application, error)

	// UpdateOwned は id と所有者を条件とする単一の UPDATE でパッチを適用します。
	// 一致する行がない場合は ErrNotFound を返します。
	UpdateOwned(ctx context.Context, userID, id uint, patch entity.Patch, now time.Time) (*entity.Application, error)

	// DeleteOwned は id と所有者を条件とする単一の DELETE を実行します。
	// 一致する行がない場合は ErrNotFound を返します。
	DeleteOwned(ctx context.Context, userID, id uint) error

	// CountByStatus はステータスごとの件数を返します。0件のステータスは含まれません。
	CountByStatus(ctx context.Context, userID uint) (map[entity.Status]int64, error)

	// ListFollowUpsBetween は follow-up 日時が [from, to] に入る応募を日時の昇順で返します。
	ListFollowUpsBetween(ctx context.Context, userID uint, from, to time.Time) ([]entity.Application, error)
}

// ListQuery は一覧取得の生のクエリパラメータです。
type ListQuery struct {
	Search string
	Status string
	Sort   string
}

// applicationUsecase は応募管理のビジネスロジックを実装します。
// すべての操作は呼び出し元から明示的に渡されたユーザーIDにスコープされます。
type applicationUsecase struct {
	repo  ApplicationRepository
	clock func() time.Time
}

// NewApplicationUsecase は applicationUsecase の新しいインスタンスを生成します。
// clock が nil の場合は time.Now を使用します。
func NewApplicationUsecase(repo ApplicationRepository, clock func() time.Time) *applicationUsecase {
	if clock == nil {
		clock = time.Now
	}
	return &applicationUsecase{repo: repo, clock: clock}
}

// Create は入力を検証し、userID を所有者とする応募を作成します。
func (u *applicationUsecase) Create(ctx context.Context, userID uint, in entity.CreateInput) (*entity.Application, error) {
	app, err := entity.NewApplication(userID, in)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

// List はユーザーの応募を検索・ステータス・並び順で絞り込んで返します。
// status が空または "all" の場合は絞り込みません。結果が0件でも nil ではなく空スライスを返します。
func (u *applicationUsecase) List(ctx context.Context, userID uint, q ListQuery) ([]entity.Application, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	apps, err := u.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	if apps == nil {
		apps = []entity.Application{}
	}
	return apps, nil
}

func buildFilter(q ListQuery) (entity.ListFilter, error) {
	filter := entity.ListFilter{
		Search: strings.ToLower(strings.TrimSpace(q.Search)),
	}

	status := strings.TrimSpace(q.Status)
	if status != "" && !strings.EqualFold(status, "all") {
		st, err := entity.ParseStatus(status)
		if err != nil {
			return entity.ListFilter{}, err
		}
		filter.Status = st
	}

	sort, err := entity.ParseSort(q.Sort)
	if err != nil {
		return entity.ListFilter{}, err
	}
	filter.Sort = sort
	return filter, nil
}

// Get はユーザーが所有する応募を返します。
// 存在しない場合は ErrNotFound、他人の応募の場合は ErrForbidden を返します。
func (u *applicationUsecase) Get(ctx context.Context, userID, id uint) (*entity.Application, error) {
	app, err := u.repo.FindOwned(ctx, userID, id)
	if err != nil {
		return nil, u.classify(ctx, userID, id, err)
	}
	return app, nil
}

// Update はパッチを検証し、所有者条件付きの単一更新で適用します。
func (u *applicationUsecase) Update(ctx context.Context, userID, id uint, patch entity.Patch) (*entity.Application, error) {
	p, err := patch.Normalize()
	if err != nil {
		return nil, err
	}

	app, err := u.repo.UpdateOwned(ctx, userID, id, p, u.clock().UTC())
	if err != nil {
		return nil, u.classify(ctx, userID, id, err)
	}
	return app, nil
}

// Delete は所有者条件付きの単一削除で応募を完全に削除します。
// 既に削除済みのIDに対しては何度呼んでも ErrNotFound を返します。
func (u *applicationUsecase) Delete(ctx context.Context, userID, id uint) error {
	if err := u.repo.DeleteOwned(ctx, userID, id); err != nil {
		return u.classify(ctx, userID, id, err)
	}
	return nil
}

// Stats はステータス別件数と合計を返します。5つのステータスキーは常に含まれます。
func (u *applicationUsecase) Stats(ctx context.Context, userID uint) (entity.Stats, error) {
	counts, err := u.repo.CountByStatus(ctx, userID)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("failed to count applications: %w", err)
	}
	return entity.NewStats(counts), nil
}

// UpcomingFollowUps は現在時刻から24時間以内（両端を含む）にフォローアップ予定の応募を返します。
func (u *applicationUsecase) UpcomingFollowUps(ctx context.Context, userID uint) ([]entity.Application, error) {
	now := u.clock().UTC()

	apps, err := u.repo.ListFollowUpsBetween(ctx, userID, now, now.Add(FollowUpWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to list follow-ups: %w", err)
	}
	if apps == nil {
		apps = []entity.Application{}
	}
	return apps, nil
}

// classify は所有者スコープの操作が失敗した理由を判定します。
// 行が見つからなかった場合のみ、所有者を問わない参照で NotFound と Forbidden を区別します。
func (u *applicationUsecase) classify(ctx context.Context, userID, id uint, err error) error {
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	existing, findErr := u.repo.FindByID(ctx, id)
	switch {
	case errors.Is(findErr, ErrNotFound):
		return ErrNotFound
	case findErr != nil:
		return fmt.Errorf("failed to load application: %w", findErr)
	case existing.UserID != userID:
		return ErrForbidden
	default:
		// 自分の応募だが操作時点では存在しなかった（並行削除など）
		return ErrNotFound
	}
}
