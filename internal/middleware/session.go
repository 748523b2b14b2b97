package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/session"
)

// SessionLoader is the read side of the session store.
type SessionLoader interface {
	Load(ctx context.Context, id string) (*domain.Session, error)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Session resolves the session cookie through store and puts the session in
// the request context. A cookie naming no live session is cleared. Backend
// failures are logged and the request continues anonymous, so guards send
// it to the login screen.
func Session(store SessionLoader, cookie CookieConfig, log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		id, err := c.Cookie(cookie.Name)
		if err != nil || id == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		sess, err := store.Load(ctx, id)
		switch {
		case err != nil:
			log.ErrorContext(ctx, "load session failed", slog.Any("error", err))
		case sess == nil:
			ClearSessionCookie(c, cookie)
		default:
			ctx = session.NewContext(ctx, sess)
			ctx = logger.WithContextAttrs(ctx, slog.String("user_id", sess.UserID))
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// CurrentSession returns the session of the request, or nil.
func CurrentSession(c *gin.Context) *domain.Session {
	return session.FromContext(c.Request.Context())
}

// SetSessionCookie issues the session cookie for sess.
func SetSessionCookie(c *gin.Context, cookie CookieConfig, sess *domain.Session) {
	maxAge := 0
	if !sess.ExpiresAt.IsZero() {
		maxAge = int(time.Until(sess.ExpiresAt).Seconds())
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookie.Name,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(c *gin.Context, cookie CookieConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
