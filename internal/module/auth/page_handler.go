package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/middleware"
	"github.com/simp-lee/hyve-admin/internal/pkg"
	"github.com/simp-lee/hyve-admin/internal/session"
	"github.com/simp-lee/hyve-admin/internal/view"
)

const (
	loginTemplate      = "auth/login.html"
	onboardingTemplate = "auth/onboarding.html"
)

// Paths are the screens the auth flow sends the browser to.
type Paths struct {
	Login string
	Home  string
}

// PageHandler serves the login, logout and onboarding screens.
type PageHandler struct {
	svc    Service
	cookie middleware.CookieConfig
	paths  Paths
}

// NewPageHandler creates a PageHandler. Empty paths default to "/login" and "/".
func NewPageHandler(svc Service, cookie middleware.CookieConfig, paths Paths) *PageHandler {
	if paths.Login == "" {
		paths.Login = "/login"
	}
	if paths.Home == "" {
		paths.Home = "/"
	}
	return &PageHandler{svc: svc, cookie: cookie, paths: paths}
}

// loginForm is the template data of the login screen.
type loginForm struct {
	Email  string
	Next   string
	Error  string
	Fields map[string]string
}

func (h *PageHandler) renderLogin(c *gin.Context, status int, form loginForm) {
	if view.IsHTMX(c) {
		status = http.StatusOK
	}
	c.HTML(status, loginTemplate, view.Page(c, "Sign in", gin.H{
		"Form":   form,
		"Email":  form.Email,
		"Next":   form.Next,
		"Error":  form.Error,
		"Fields": form.Fields,
	}))
}

// LoginForm renders the login screen. A signed-in user goes straight on.
// GET /login
func (h *PageHandler) LoginForm(c *gin.Context) {
	next := middleware.SafeNext(c.Query("next"), "")
	if middleware.CurrentSession(c).IsAuthenticated() {
		view.Redirect(c, middleware.SafeNext(next, h.paths.Home))
		return
	}
	h.renderLogin(c, http.StatusOK, loginForm{Next: next})
}

// Login checks the credentials and starts a session. Failures stay on the
// login screen with the message inline.
// POST /login
func (h *PageHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, http.StatusBadRequest, loginForm{
			Email:  strings.TrimSpace(req.Email),
			Next:   middleware.SafeNext(req.Next, ""),
			Error:  "Enter your email and password.",
			Fields: pkg.FieldErrors(err, &req),
		})
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		form := loginForm{Email: strings.TrimSpace(req.Email), Next: middleware.SafeNext(req.Next, "")}
		switch {
		case domain.IsValidation(err), domain.IsForbidden(err):
			form.Error = capitalize(domain.UserMessage(err, "Invalid email or password."))
			h.renderLogin(c, http.StatusUnauthorized, form)
		default:
			slog.WarnContext(c.Request.Context(), "login failed", slog.Any("error", err))
			form.Error = "Sign-in is unavailable right now. Try again."
			h.renderLogin(c, http.StatusBadGateway, form)
		}
		return
	}

	middleware.SetSessionCookie(c, h.cookie, sess)
	view.Redirect(c, middleware.SafeNext(req.Next, h.paths.Home))
}

// Logout ends the session and returns to the login screen.
// POST /logout
func (h *PageHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.svc.Logout(ctx, session.IDFromContext(ctx)); err != nil {
		slog.ErrorContext(ctx, "logout failed", slog.Any("error", err))
	}
	middleware.ClearSessionCookie(c, h.cookie)
	view.Redirect(c, h.paths.Login)
}

// OnboardingForm renders the onboarding screen.
// GET /onboarding
func (h *PageHandler) OnboardingForm(c *gin.Context) {
	c.HTML(http.StatusOK, onboardingTemplate, view.Page(c, "Welcome to HYVE", nil))
}

// Onboarding completes onboarding and opens the console.
// POST /onboarding
func (h *PageHandler) Onboarding(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.svc.CompleteOnboarding(ctx, session.IDFromContext(ctx)); err != nil {
		view.Fail(c, err, "Onboarding could not be completed. Try again.")
		return
	}
	view.Redirect(c, h.paths.Home)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
