package middleware

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// userIDKey mirrors the key the access guard sets after resolving the caller.
const userIDKey = "userID"

// AccessLog logs one line per request with the request id and, when authenticated, the user id.
// HEAD health probes are skipped.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		Skipper: func(c *gin.Context) bool {
			return c.Request.Method == "HEAD"
		},
		Context: func(c *gin.Context) []zapcore.Field {
			fields := []zapcore.Field{}

			if v := c.GetString(GinRequestIDKey); v != "" {
				fields = append(fields, zap.String("request_id", v))
			}

			if v := c.GetUint(userIDKey); v != 0 {
				fields = append(fields, zap.Uint("user_id", v))
			}

			return fields
		},
	})
}

// Recovery turns panics into 500 responses and logs them with a stack trace.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return ginzap.RecoveryWithZap(logger, true)
}
