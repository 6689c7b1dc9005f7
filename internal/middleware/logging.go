package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
)

// LoggingMiddleware 请求日志中间件
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	httpLog := log.Service("http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		httpLog.Info("RequestHandled").
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}
