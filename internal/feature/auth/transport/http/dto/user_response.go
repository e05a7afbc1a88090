package dto

import (
	"time"

	"jobtrack_backend/internal/feature/auth/domain/entity"
)

// UserRes はクライアントに返すユーザー情報です。パスワードハッシュは含みません。
type UserRes struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthRes は登録・ログイン成功時のレスポンスです。
type AuthRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

// ToUserRes はエンティティをレスポンス形式に変換します。
func ToUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC(),
	}
}
