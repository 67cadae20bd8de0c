package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request at a level picked by status class.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if userID := UserID(c); userID != "" {
			fields = append(fields, "user_id", userID)
		}

		switch {
		case status >= 500:
			slog.Error("HTTP request", fields...)
		case status >= 400:
			slog.Warn("HTTP request", fields...)
		default:
			slog.Info("HTTP request", fields...)
		}
	}
}
