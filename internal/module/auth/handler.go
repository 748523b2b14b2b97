package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/middleware"
	"github.com/simp-lee/hyve-admin/internal/pkg"
	"github.com/simp-lee/hyve-admin/internal/session"
)

// Handler handles JSON API requests for authentication. A successful login
// issues the same session cookie the console uses.
type Handler struct {
	svc    Service
	cookie middleware.CookieConfig
}

// NewHandler creates a Handler with the given service.
func NewHandler(svc Service, cookie middleware.CookieConfig) *Handler {
	return &Handler{svc: svc, cookie: cookie}
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, sess)
	pkg.Success(c, sessionResponseFrom(sess))
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), session.IDFromContext(c.Request.Context())); err != nil {
		pkg.Error(c, err)
		return
	}
	middleware.ClearSessionCookie(c, h.cookie)
	pkg.Success(c, nil)
}
