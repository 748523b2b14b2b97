package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/session"
)

// LoggerConfig tunes request logging.
type LoggerConfig struct {
	// SkipPrefixes are path prefixes that are not logged, e.g. "/static/".
	SkipPrefixes []string
}

// Logger logs each request with method, path, status, latency, client IP,
// whether htmx issued it and the session user. The level follows the status:
// Info below 400, Warn for 4xx, Error for 5xx.
func Logger(logger *slog.Logger, cfg LoggerConfig) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		for _, p := range cfg.SkipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, p) {
				c.Next()
				return
			}
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if isHTMX(c) {
			attrs = append(attrs, slog.Bool("htmx", true))
		}
		if s := session.FromContext(c.Request.Context()); s != nil {
			attrs = append(attrs, slog.String("user_id", s.UserID))
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		logger.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}
