// Package handler はapplicationsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobtrack_backend/internal/api"
	"jobtrack_backend/internal/feature/applications/domain/entity"
	"jobtrack_backend/internal/feature/applications/transport/http/dto"
	"jobtrack_backend/internal/feature/applications/usecase"
	jwtmw "jobtrack_backend/internal/platform/jwt"
)

// ApplicationUsecase は応募管理のユースケースを定義します。
// Goの慣例に従い、インターフェースはコンシューマー（handler）が定義します。
type ApplicationUsecase interface {
	Create(ctx context.Context, userID uint, in entity.CreateInput) (*entity.Application, error)
	List(ctx context.Context, userID uint, q usecase.ListQuery) ([]entity.Application, error)
	Get(ctx context.Context, userID, id uint) (*entity.Application, error)
	Update(ctx context.Context, userID, id uint, patch entity.Patch) (*entity.Application, error)
	Delete(ctx context.Context, userID, id uint) error
	Stats(ctx context.Context, userID uint) (entity.Stats, error)
	UpcomingFollowUps(ctx context.Context, userID uint) ([]entity.Application, error)
}

// ApplicationHandler は /applications 以下のHTTPリクエストを処理します。
// すべてのルートは jwtmw.AuthRequired の背後に置かれる前提です。
type ApplicationHandler struct {
	uc     ApplicationUsecase
	logger *zap.Logger
}

// NewApplicationHandler はApplicationHandlerを生成します。
func NewApplicationHandler(uc ApplicationUsecase, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, logger: logger}
}

// Create は POST /applications を処理します。
func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	app, err := h.uc.Create(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		h.fail(c, "create application", err)
		return
	}
	c.JSON(http.StatusCreated, dto.ApplicationEnvelope{
		Message:     "Application created successfully",
		Application: dto.ToApplicationRes(app),
	})
}

// List は GET /applications?search=&status=&sort= を処理します。
func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	apps, err := h.uc.List(c.Request.Context(), userID, usecase.ListQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		h.fail(c, "list applications", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationList(apps))
}

// Stats は GET /applications/stats を処理します。
func (h *ApplicationHandler) Stats(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	stats, err := h.uc.Stats(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "application stats", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToStatsRes(stats))
}

// UpcomingFollowUps は GET /applications/upcoming-followups を処理します。
func (h *ApplicationHandler) UpcomingFollowUps(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	apps, err := h.uc.UpcomingFollowUps(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "upcoming follow-ups", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationList(apps))
}

// Get は GET /applications/:id を処理します。
func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, id, ok := h.target(c)
	if !ok {
		return
	}

	app, err := h.uc.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, "get application", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationRes(app))
}

// Update は PUT /applications/:id を処理します。
func (h *ApplicationHandler) Update(c *gin.Context) {
	userID, id, ok := h.target(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c, err)
		return
	}

	app, err := h.uc.Update(c.Request.Context(), userID, id, req.ToPatch())
	if err != nil {
		h.fail(c, "update application", err)
		return
	}
	c.JSON(http.StatusOK, dto.ApplicationEnvelope{
		Message:     "Application updated successfully",
		Application: dto.ToApplicationRes(app),
	})
}

// Delete は DELETE /applications/:id を処理します。
func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, id, ok := h.target(c)
	if !ok {
		return
	}

	if err := h.uc.Delete(c.Request.Context(), userID, id); err != nil {
		h.fail(c, "delete application", err)
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Application deleted successfully"})
}

// userID はアクセスガードが解決したユーザーのIDを返します。
func (h *ApplicationHandler) userID(c *gin.Context) (uint, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "not authorized"})
		return 0, false
	}
	return user.ID, true
}

// target は現在のユーザーIDとパスの :id を返します。
func (h *ApplicationHandler) target(c *gin.Context) (userID, id uint, ok bool) {
	userID, ok = h.userID(c)
	if !ok {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid application id"})
		return 0, 0, false
	}
	return userID, uint(n), true
}

func (h *ApplicationHandler) badBody(c *gin.Context, err error) {
	h.logger.Warn("bad request body", zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
}

// fail はユースケースのエラーをステータスコードに変換します。
// 想定外のエラーの詳細はログにのみ出力します。
func (h *ApplicationHandler) fail(c *gin.Context, op string, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: vErr.Message})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "application not found"})
	case errors.Is(err, usecase.ErrForbidden):
		h.logger.Warn("forbidden application access", zap.String("op", op), zap.String("id", c.Param("id")))
		c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "not authorized to access this application"})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
	}
}
