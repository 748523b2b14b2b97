package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/hyve-admin/internal/config"
	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/guard"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
	"github.com/simp-lee/hyve-admin/internal/listview"
	"github.com/simp-lee/hyve-admin/internal/metrics"
	"github.com/simp-lee/hyve-admin/internal/middleware"
	"github.com/simp-lee/hyve-admin/internal/session"
	"github.com/simp-lee/hyve-admin/web"
)

// App holds the console's long-lived dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	store  *session.Store
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// newSessionBackend is replaced in tests.
var newSessionBackend = defaultSessionBackend

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, the session store, the HYVE API client, metrics,
// guards, modules, template rendering and routes.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}

	success := false

	// 1. Logger.
	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 exposes template hot reload and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	// 2. Session store over the configured backend.
	backend, db, err := newSessionBackend(cfg, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup session backend: %w", err)
	}
	sessionTTL := config.Duration(cfg.Session.TTL, 12*time.Hour)
	store := session.NewStore(backend, session.Options{
		Namespace: cfg.Session.Namespace,
		TTL:       sessionTTL,
		Logger:    log.Logger,
	})
	defer func() {
		if success {
			return
		}
		if err := store.Close(); err != nil {
			slog.Error("session store close error", slog.Any("error", err))
		}
	}()
	initCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = store.Init(initCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("init session store: %w", err)
	}

	// 3. Metrics and the HYVE API client. The store is the client's token
	// source and tears the session down when the API answers 401.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	api := hyveapi.NewClient(hyveapi.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   config.Duration(cfg.API.Timeout, 15*time.Second),
		UserAgent: cfg.API.UserAgent,
	}, store, log.Logger, hyveapi.WithObserver(collector))

	// 4. Per-session list state, dropped with the session or once idle for
	// a whole session lifetime.
	lists := listview.NewRegistry(listview.WithIdleTTL(sessionTTL))
	store.OnTeardown(lists.Drop)

	// 5. Guards.
	chain := guard.NewChain(guard.Config{
		LoginPath:      cfg.Access.LoginPath,
		HomePath:       cfg.Access.HomePath,
		OnboardingPath: cfg.Access.OnboardingPath,
		Restricted:     restrictedRules(cfg.Access.Restricted),
	})
	guardFor := middleware.Guard(middleware.GuardConfig{
		Chain:     chain,
		LoginPath: cfg.Access.LoginPath,
		Recorder:  collector,
		Logger:    log.Logger,
	})

	cookie := middleware.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}
	var loginLimit gin.HandlerFunc
	if cfg.Server.RateLimit.Enabled {
		loginLimit = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RPS:   cfg.Server.RateLimit.RPS,
			Burst: cfg.Server.RateLimit.Burst,
		}).Middleware()
	}

	// 6. Modules.
	mods := buildModules(moduleDeps{
		API:      api,
		Store:    store,
		Lists:    lists,
		Recorder: collector,
		Cookie:   cookie,
		Access:   cfg.Access,
		ListDefaults: listview.Options{
			PageSizes:       cfg.List.PageSizes,
			DefaultPageSize: cfg.List.DefaultPageSize,
			SearchDebounce:  config.Duration(cfg.List.SearchDebounce, 300*time.Millisecond),
			OnStale:         collector.RecordStale,
		},
		Guard:      guardFor,
		LoginLimit: loginLimit,
	})

	// 7. Gin engine with explicit middleware (not gin.Default()).
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{TrustUpstream: false}),
		middleware.Session(store, cookie, log.Logger),
		middleware.Logger(log.Logger, middleware.LoggerConfig{SkipPrefixes: []string{"/static/", "/health", "/metrics"}}),
	)
	if d := config.Duration(cfg.Server.Timeout, 0); d > 0 {
		engine.Use(requestTimeout(d))
	}

	// 8. Templates.
	var fsys fs.FS
	if cfg.Server.Mode == gin.DebugMode {
		fsys, err = resolveDebugWebFS()
		if err != nil {
			return nil, fmt.Errorf("resolve debug template fs: %w", err)
		}
	} else {
		fsys = web.EmbeddedFS
	}
	renderer, err := NewTemplateRenderer(fsys, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		return nil, fmt.Errorf("setup template renderer: %w", err)
	}
	engine.HTMLRender = renderer

	// 9. CSRF secret.
	csrfSecret, err := resolveCSRFSecret(cfg.Server.CSRFSecret, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}
	if csrfSecret != cfg.Server.CSRFSecret {
		log.Warn("no csrf_secret configured, using random secret in non-release mode (will change on restart)")
	}

	// 10. Routes.
	if err := RegisterRoutes(engine, &RouteDeps{
		Public:   mods.public,
		Console:  mods.console,
		Guard:    guardFor(consoleTarget),
		CORS:     resolveCORSConfig(cfg.Server.Mode, cfg.Server.CORS),
		CSRF:     middleware.CSRFConfig{Secret: csrfSecret, Secure: cfg.Session.Secure},
		Health:   []HealthCheck{{Name: "session_store", Ping: store.Ping}, {Name: "hyve_api", Ping: api.Ping}},
		Gatherer: registry,
		HomePath: cfg.Access.HomePath,
		Mode:     cfg.Server.Mode,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		store:  store,
		logger: log,
		cfg:    cfg,
	}, nil
}

// defaultSessionBackend opens redis or the session database. db is nil for
// redis.
func defaultSessionBackend(cfg *config.Config, log *slog.Logger) (session.Backend, *gorm.DB, error) {
	if cfg.Session.Store == "redis" {
		return session.NewRedisBackend(session.RedisOptions{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		}), nil, nil
	}
	db, err := config.SetupDatabase(&cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	return session.NewDBBackend(db), db, nil
}

// restrictedRules converts the configured whitelists, keyed by role name as
// the API spells it, into guard rules.
func restrictedRules(in map[string]config.RoleAccessConfig) map[domain.Role]guard.Whitelist {
	if len(in) == 0 {
		return nil
	}
	out := make(map[domain.Role]guard.Whitelist, len(in))
	for name, rule := range in {
		out[domain.ParseRole(name)] = guard.Whitelist{DefaultPath: rule.DefaultPath, Allow: rule.Allow}
	}
	return out
}

func resolveCSRFSecret(secret, mode string) (string, error) {
	if !isPlaceholderCSRFSecret(secret) {
		return secret, nil
	}
	if mode == gin.ReleaseMode {
		return "", errors.New("csrf_secret must be a non-placeholder value in release mode")
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func isPlaceholderCSRFSecret(secret string) bool {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return true
	}

	switch strings.ToLower(trimmed) {
	case "change-me-to-a-random-secret", "change-me-in-env":
		return true
	default:
		return false
	}
}

// resolveCORSConfig builds the JSON API's CORS settings. In release mode an
// empty allowlist denies every cross-origin caller.
func resolveCORSConfig(mode string, in config.CORSConfig) middleware.CORSConfig {
	out := middleware.DefaultCORSConfig()
	if len(in.AllowMethods) > 0 {
		out.AllowMethods = in.AllowMethods
	}
	if len(in.AllowHeaders) > 0 {
		out.AllowHeaders = in.AllowHeaders
	}
	out.AllowCredentials = in.AllowCredentials
	if d := config.Duration(in.MaxAge, 0); d > 0 {
		out.MaxAge = strconv.Itoa(int(d.Seconds()))
	}

	switch {
	case len(in.AllowOrigins) > 0:
		out.AllowOrigins = in.AllowOrigins
	case mode == gin.ReleaseMode:
		out.AllowOrigins = nil
	}
	return out
}

// requestTimeout bounds the context of every request, so HYVE API calls made
// while serving it give up together.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

func resolveDebugWebFS() (fs.FS, error) {
	if _, file, _, ok := runtime.Caller(0); ok {
		webDir := filepath.Clean(filepath.Join(filepath.Dir(file), "..", "..", "web"))
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	exePath, err := os.Executable()
	if err == nil {
		webDir := filepath.Join(filepath.Dir(exePath), "web")
		if stat, err := os.Stat(webDir); err == nil && stat.IsDir() {
			return os.DirFS(webDir), nil
		}
	}

	return nil, errors.New("debug web directory not found")
}

// Handler returns the HTTP handler of the console.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It shuts down gracefully within five seconds, then closes the session store
// and the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr), slog.String("api", a.cfg.API.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	a.close(log)

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}
	return runErr
}

// close releases the session store and, when sessions live in the
// database, its connection pool.
func (a *App) close(log *slog.Logger) {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Error("session store close error", slog.Any("error", err))
		}
	}
	if a.db == nil {
		return
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}
