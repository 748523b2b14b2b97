package middleware

import (
	"slices"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig holds the cross-origin settings of the JSON API.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge string
}

// DefaultCORSConfig returns a permissive configuration for development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		MaxAge:       "86400",
	}
}

// CORS returns the gin-contrib/cors middleware for cfg. An empty origin list
// allows no cross-origin caller.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		AllowCredentials: cfg.AllowCredentials,
		ExposeHeaders:    []string{requestIDHeader},
	}
	if secs, err := strconv.Atoi(cfg.MaxAge); err == nil && secs > 0 {
		c.MaxAge = time.Duration(secs) * time.Second
	}

	switch {
	case slices.Contains(cfg.AllowOrigins, "*") && !cfg.AllowCredentials:
		c.AllowAllOrigins = true
	case slices.Contains(cfg.AllowOrigins, "*"):
		// Credentials forbid the wildcard; echo the caller instead.
		c.AllowOriginFunc = func(string) bool { return true }
	case len(cfg.AllowOrigins) == 0:
		c.AllowOriginFunc = func(string) bool { return false }
	default:
		c.AllowOrigins = cfg.AllowOrigins
	}
	return cors.New(c)
}
