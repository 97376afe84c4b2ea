// Package middlewares holds gin middlewares shared by the router.
package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZapLogger logs one line per request. Scrapes are frequent, so successful
// requests go to debug and only failures are logged at info or above.
func ZapLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("uri", c.Request.RequestURI),
			zap.String("remote", c.ClientIP()),
			zap.Int("status", status),
			zap.Int("size", max(c.Writer.Size(), 0)),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case status >= 500:
			l.Error("http_request", fields...)
		case status >= 400:
			l.Info("http_request", fields...)
		default:
			l.Debug("http_request", fields...)
		}
	}
}
