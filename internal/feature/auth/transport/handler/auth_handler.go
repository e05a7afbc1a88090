// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jobtrack_backend/internal/api"
	"jobtrack_backend/internal/feature/auth/transport/http/dto"
	"jobtrack_backend/internal/feature/auth/usecase"
	jwtmw "jobtrack_backend/internal/platform/jwt"
	"jobtrack_backend/internal/shared/validation"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、トークンを発行します。
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.AuthResult, error)
	// Login はユーザーを認証し、成功時にトークンを発行します。
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth   AuthUsecase
	logger *zap.Logger
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - JSONが不正、または入力エラー時は400
// - メール重複時は409
// - 成功時はトークンとユーザー付きで201
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("register: bad request body", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		return
	}

	res, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var vErr *validation.Error
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: vErr.Message})
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			h.logger.Warn("register: email taken", zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusConflict, api.ErrorResponse{Message: "user already exists"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
		}
		return
	}

	h.logger.Info("user registered", zap.Uint("user_id", res.User.ID))
	c.JSON(http.StatusCreated, dto.AuthRes{Token: res.Token, User: dto.ToUserRes(res.User)})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証失敗時はユーザーの有無を区別せず401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		// binding:"required" 違反と JSON 自体の不正を区別する
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "email and password are required"})
			return
		}
		h.logger.Warn("login: bad request body", zap.Error(err), zap.String("remote_addr", c.ClientIP()))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.logger.Warn("login failed", zap.String("remote_addr", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid email or password"})
			return
		}
		h.logger.Error("login error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.AuthRes{Token: res.Token, User: dto.ToUserRes(res.User)})
}

// Me はアクセスガードが解決した現在のユーザーを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "not authorized"})
		return
	}
	c.JSON(http.StatusOK, dto.ToUserRes(user))
}
