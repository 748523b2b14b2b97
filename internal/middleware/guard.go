package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/hyve-admin/internal/guard"
)

// RedirectRecorder counts guard denials.
type RedirectRecorder interface {
	RecordRedirect(guard string)
}

// GuardConfig configures the guard adaptor.
type GuardConfig struct {
	Chain     *guard.Chain
	LoginPath string
	Recorder  RedirectRecorder
	Logger    *slog.Logger
}

const loginPathKey = "login_path"

// Guard turns chain decisions into navigation. It returns a constructor of
// per-route middleware: screen describes the route, its Path is taken from
// the request.
//
// Denials answer by client: the JSON API gets 401 when authentication failed
// and 403 otherwise, htmx gets HX-Redirect, browsers get 303 See Other. An
// unauthenticated GET keeps the requested page in the login URL's "next"
// parameter.
func Guard(cfg GuardConfig) func(screen guard.Target) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return func(screen guard.Target) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(loginPathKey, cfg.LoginPath)

			t := screen
			t.Path = c.Request.URL.Path
			d := cfg.Chain.Evaluate(CurrentSession(c), t)
			if d.Allow {
				c.Next()
				return
			}

			if cfg.Recorder != nil {
				cfg.Recorder.RecordRedirect(d.Guard)
			}
			log.DebugContext(c.Request.Context(), "guard denied request",
				slog.String("guard", d.Guard),
				slog.String("path", t.Path),
				slog.String("redirect_to", d.RedirectTo),
			)

			switch {
			case wantsJSON(c):
				status := http.StatusForbidden
				msg := "forbidden"
				if d.Guard == (guard.Authenticated{}).Name() {
					status, msg = http.StatusUnauthorized, "authentication required"
				}
				c.AbortWithStatusJSON(status, gin.H{"code": status, "message": msg, "data": nil})
			case d.Forbidden():
				abortWith(c, http.StatusForbidden, "You do not have access to this page.")
			default:
				to := d.RedirectTo
				if d.Guard == (guard.Authenticated{}).Name() && c.Request.Method == http.MethodGet {
					to = withNext(to, c.Request.URL.RequestURI())
				}
				c.Abort()
				navigate(c, to)
			}
		}
	}
}

// LoginPath returns the login path recorded by Guard for the request.
func LoginPath(c *gin.Context) string {
	if p := c.GetString(loginPathKey); p != "" {
		return p
	}
	return "/login"
}

// navigate redirects with HX-Redirect for htmx and 303 otherwise.
func navigate(c *gin.Context, to string) {
	if isHTMX(c) {
		c.Header("HX-Redirect", to)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, to)
}

func withNext(path, next string) string {
	if next == "" || next == "/" {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}
