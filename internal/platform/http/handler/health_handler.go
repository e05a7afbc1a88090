// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pingTimeout はヘルスチェック1回あたりの依存先への問い合わせ上限です。
const pingTimeout = 2 * time.Second

// Pinger は依存先（DB など）の疎通を確認します。*sql.DB が満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler は /healthz を処理します。
type HealthHandler struct {
	db     Pinger
	logger *zap.Logger
}

// NewHealthHandler は HealthHandler を生成します。db が nil の場合は疎通確認を省略します。
func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// DBに到達できない場合は503を返し、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	status := http.StatusOK
	body := gin.H{"status": "ok"}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("health check: database unreachable", zap.Error(err))
			status = http.StatusServiceUnavailable
			body = gin.H{"status": "unavailable"}
		}
	}

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(status)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(status, body)
	}
}
