package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/simp-lee/hyve-admin/internal/metrics"
	"github.com/simp-lee/hyve-admin/internal/middleware"
	"github.com/simp-lee/hyve-admin/internal/pkg"
	"github.com/simp-lee/hyve-admin/web"
)

// HealthCheck is one component reported by /health.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	// Public modules (login, logout, onboarding) bring their own guards.
	Public []Module
	// Console modules are registered behind Guard.
	Console  []Module
	Guard    gin.HandlerFunc
	CORS     middleware.CORSConfig
	CSRF     middleware.CSRFConfig
	Health   []HealthCheck
	Gatherer prometheus.Gatherer
	HomePath string
	Mode     string // "debug" or "release"
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Public)+len(deps.Console) == 0 {
		return errors.New("at least one module is required")
	}
	if strings.TrimSpace(deps.CSRF.Secret) == "" {
		return errors.New("csrf secret is required")
	}
	guard := deps.Guard
	if guard == nil {
		return errors.New("console guard is required")
	}
	home := deps.HomePath
	if home == "" {
		home = "/dashboard"
	}

	if err := registerStaticRoutesWithError(r, deps.Mode); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}

	r.GET("/health", healthHandler(deps.Health))
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))
	}

	// API routes: CORS, no CSRF.
	api := r.Group("/api/v1", middleware.CORS(deps.CORS))
	pages := r.Group("/", middleware.CSRF(deps.CSRF))

	if home != "/" {
		pages.GET("/", guard, func(c *gin.Context) {
			c.Redirect(http.StatusSeeOther, home)
		})
	}

	for i, m := range deps.Public {
		if m == nil {
			return fmt.Errorf("public module at index %d is nil", i)
		}
		m.RegisterRoutes(api, pages)
	}

	consoleAPI := api.Group("", guard)
	consolePages := pages.Group("", guard)
	for i, m := range deps.Console {
		if m == nil {
			return fmt.Errorf("console module at index %d is nil", i)
		}
		m.RegisterRoutes(consoleAPI, consolePages)
	}

	r.NoRoute(noRouteHandler())
	return nil
}

// healthHandler pings every component concurrently, each within a second,
// and reports 503 when any of them fails.
func healthHandler(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		components := make(gin.H, len(checks))
		var mu sync.Mutex
		var wg sync.WaitGroup
		healthy := true
		for _, hc := range checks {
			wg.Add(1)
			go func() {
				defer wg.Done()
				status := "ok"
				if hc.Ping == nil || hc.Ping(ctx) != nil {
					status = "error"
				}
				mu.Lock()
				defer mu.Unlock()
				components[hc.Name] = status
				if status != "ok" {
					healthy = false
				}
			}()
		}
		wg.Wait()

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "components": components})
	}
}

// noRouteHandler returns a handler that renders a 404 HTML page for browser
// requests or a JSON response for API clients.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
			return
		}
		renderError(c, http.StatusNotFound, "The page you are looking for does not exist.")
	}
}

func registerStaticRoutesWithError(r *gin.Engine, mode string) error {
	if mode == gin.DebugMode {
		debugStaticFS, err := resolveDebugStaticFS()
		if err != nil {
			return fmt.Errorf("resolve debug static filesystem: %w", err)
		}
		fileServer := http.StripPrefix("/static", http.FileServer(http.FS(debugStaticFS)))
		r.GET("/static/*filepath", func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
		return nil
	}

	staticFS, err := fs.Sub(web.EmbeddedFS, "static")
	if err != nil {
		return fmt.Errorf("create sub filesystem for static assets: %w", err)
	}
	r.GET("/static/*filepath", cacheStaticHandler(http.FS(staticFS)))
	return nil
}

func resolveDebugStaticFS() (fs.FS, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, errors.New("resolve current file path")
	}

	projectRoot := filepath.Clean(filepath.Join(filepath.Dir(currentFile), "..", ".."))
	staticDir := filepath.Join(projectRoot, "web", "static")
	if _, err := os.Stat(staticDir); err != nil {
		return nil, fmt.Errorf("stat static directory %q: %w", staticDir, err)
	}

	return os.DirFS(staticDir), nil
}

// cacheStaticHandler serves embedded assets with a one day Cache-Control.
func cacheStaticHandler(fsys http.FileSystem) gin.HandlerFunc {
	fileServer := http.StripPrefix("/static", http.FileServer(fsys))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=86400")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
