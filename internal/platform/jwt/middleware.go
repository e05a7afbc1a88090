package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobtrack_backend/internal/api"
	"jobtrack_backend/internal/feature/auth/domain/entity"
	authusecase "jobtrack_backend/internal/feature/auth/usecase"
)

const (
	// ContextUserID はアクセスログ用にユーザーIDを保存するキーです。
	ContextUserID = "userID"
	// ContextUser は解決済みの *entity.User を保存するキーです。
	ContextUser = "user"

	bearerPrefix = "Bearer "
)

const (
	msgTokenMissing = "not authorized, token missing"
	msgTokenInvalid = "not authorized, invalid token"
	msgUserNotFound = "not authorized, user not found"
)

// TokenVerifier はトークンからユーザーIDを取り出します。
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// UserResolver はユーザーIDから現在のユーザーを取得します。
// 存在しない場合は authusecase.ErrUserNotFound を返します。
type UserResolver interface {
	Me(ctx context.Context, userID uint) (*entity.User, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens,
// resolves the user they refer to and restricts access to authenticated users only.
func AuthRequired(verifier TokenVerifier, users UserResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization ヘッダーから Bearer トークンを取得
		auth := c.GetHeader("Authorization")
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
		if !strings.HasPrefix(auth, bearerPrefix) || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: msgTokenMissing})
			return
		}

		// 2. 署名と有効期限を検証
		userID, err := verifier.Verify(tokenStr)
		if err != nil {
			logger.Debug("token rejected", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: msgTokenInvalid})
			return
		}

		// 3. トークンが指すユーザーがまだ存在するか確認
		user, err := users.Me(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, authusecase.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: msgUserNotFound})
				return
			}
			logger.Error("failed to resolve user", zap.Uint("user_id", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
			return
		}

		// 4. 後続のハンドラーに解決済みユーザーを渡す
		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// CurrentUser は AuthRequired が解決したユーザーを返します。
// AuthRequired を通過していないリクエストでは false を返します。
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}
