package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/hyve-admin/internal/config"
	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/session"
)

type fakeHTTPServer struct {
	listenErr      error
	listenStarted  chan struct{}
	shutdownCalled bool
	stopCh         chan struct{}
	mu             sync.Mutex
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenStarted != nil {
		close(f.listenStarted)
	}
	if f.listenErr != nil {
		return f.listenErr
	}
	if f.stopCh != nil {
		<-f.stopCh
	}
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.mu.Lock()
	f.shutdownCalled = true
	f.mu.Unlock()
	if f.stopCh != nil {
		close(f.stopCh)
	}
	return nil
}

func (f *fakeHTTPServer) wasShutdownCalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shutdownCalled
}

// testConfig returns a validated test-mode config with sessions in a temp
// sqlite file and the API at apiURL.
func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	color := false
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080, Mode: gin.TestMode, CSRFSecret: "Test-Secret-123"},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "sessions.db")},
		},
		Log: config.LogConfig{Level: "error", Format: "text", Color: &color},
		API: config.APIConfig{BaseURL: apiURL, Timeout: "2s"},
		Access: config.AccessConfig{
			Restricted: map[string]config.RoleAccessConfig{
				"client": {DefaultPath: "/projects", Allow: []string{"/dashboard", "/projects/*"}},
			},
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return cfg
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func closeApp(t *testing.T, a *App) {
	t.Helper()
	t.Cleanup(func() { a.close(slog.Default()) })
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) error = nil")
	}
}

func TestNew_ServesConsole(t *testing.T) {
	a, err := New(testConfig(t, fakeAPI(t).URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	closeApp(t, a)

	tests := []struct {
		name       string
		path       string
		accept     string
		wantStatus int
		wantLoc    string
		wantBody   string
	}{
		{"health reports every component", "/health", "", http.StatusOK, "", `"hyve_api":"ok"`},
		{"login page is public", "/login", "text/html", http.StatusOK, "", "Sign in"},
		{"console page needs a session", "/freelancers?page=2", "text/html", http.StatusSeeOther, "/login?next=%2Ffreelancers%3Fpage%3D2", ""},
		{"root goes home through the guard", "/", "text/html", http.StatusSeeOther, "/login", ""},
		{"api answers 401 as JSON", "/api/v1/freelancers", "", http.StatusUnauthorized, "", `"authentication required"`},
		{"unknown api path", "/api/v1/nope", "", http.StatusNotFound, "", `"not found"`},
		{"metrics are exposed", "/metrics", "", http.StatusOK, "", "go_goroutines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			a.Handler().ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantLoc != "" && w.Header().Get("Location") != tt.wantLoc {
				t.Errorf("Location = %q, want %q", w.Header().Get("Location"), tt.wantLoc)
			}
			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestNew_SessionCookieOpensConsole(t *testing.T) {
	cfg := testConfig(t, fakeAPI(t).URL)
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	closeApp(t, a)

	sess, err := a.store.Create(context.Background(), domain.User{ID: "u1", Name: "Ada", Role: "admin", IsAdmin: true, OnboardingComplete: true}, "tok")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: cfg.Session.CookieName, Value: sess.ID})
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != cfg.Access.HomePath {
		t.Errorf("signed-in /login: status = %d location = %q", w.Code, w.Header().Get("Location"))
	}
}

func TestNew_SessionBackendError(t *testing.T) {
	original := newSessionBackend
	defer func() { newSessionBackend = original }()
	newSessionBackend = func(*config.Config, *slog.Logger) (session.Backend, *gorm.DB, error) {
		return nil, nil, errors.New("redis down")
	}

	_, err := New(testConfig(t, "http://127.0.0.1:1"))
	if err == nil || !strings.Contains(err.Error(), "setup session backend") {
		t.Fatalf("New() error = %v", err)
	}
}

func TestNew_ReleaseModeRejectsPlaceholderSecret(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Server.Mode = gin.ReleaseMode
	cfg.Server.CSRFSecret = "change-me-in-env"
	if _, err := New(cfg); err == nil || !strings.Contains(err.Error(), "csrf_secret") {
		t.Fatalf("New() error = %v", err)
	}
}

func TestResolveCSRFSecret(t *testing.T) {
	got, err := resolveCSRFSecret("Real-Secret-1", gin.ReleaseMode)
	if err != nil || got != "Real-Secret-1" {
		t.Errorf("configured secret: %q, %v", got, err)
	}
	got, err = resolveCSRFSecret("  ", gin.DebugMode)
	if err != nil || len(got) != 64 {
		t.Errorf("generated secret: %q, %v", got, err)
	}
	if _, err := resolveCSRFSecret("change-me-to-a-random-secret", gin.ReleaseMode); err == nil {
		t.Error("placeholder accepted in release mode")
	}
}

func TestResolveCORSConfig(t *testing.T) {
	tests := []struct {
		name        string
		mode        string
		in          config.CORSConfig
		wantOrigins []string
		wantMethods []string
		wantMaxAge  string
		wantCreds   bool
	}{
		{"debug default is permissive", gin.DebugMode, config.CORSConfig{}, []string{"*"}, []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}, "86400", false},
		{"release default denies", gin.ReleaseMode, config.CORSConfig{}, nil, nil, "86400", false},
		{"explicit allowlist", gin.ReleaseMode, config.CORSConfig{AllowOrigins: []string{"https://ops.hyve.io"}, AllowCredentials: true}, []string{"https://ops.hyve.io"}, nil, "86400", true},
		{"methods and max age", gin.DebugMode, config.CORSConfig{AllowMethods: []string{"GET"}, MaxAge: "12h"}, []string{"*"}, []string{"GET"}, "43200", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveCORSConfig(tt.mode, tt.in)
			if !slices.Equal(got.AllowOrigins, tt.wantOrigins) {
				t.Errorf("AllowOrigins = %v, want %v", got.AllowOrigins, tt.wantOrigins)
			}
			if tt.wantMethods != nil && !slices.Equal(got.AllowMethods, tt.wantMethods) {
				t.Errorf("AllowMethods = %v, want %v", got.AllowMethods, tt.wantMethods)
			}
			if got.MaxAge != tt.wantMaxAge {
				t.Errorf("MaxAge = %q, want %q", got.MaxAge, tt.wantMaxAge)
			}
			if got.AllowCredentials != tt.wantCreds {
				t.Errorf("AllowCredentials = %v", got.AllowCredentials)
			}
		})
	}
}

func TestRestrictedRules(t *testing.T) {
	rules := restrictedRules(map[string]config.RoleAccessConfig{
		"CENTER-ADMIN": {DefaultPath: "/freelancers", Allow: []string{"/freelancers"}},
	})
	rule, ok := rules[domain.RoleCenterAdmin]
	if !ok || rule.DefaultPath != "/freelancers" || !rule.Permits("/freelancers") {
		t.Errorf("rules = %+v", rules)
	}
	if restrictedRules(nil) != nil {
		t.Error("no rules should stay nil")
	}
}

func TestRequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(requestTimeout(time.Minute))
	r.GET("/", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			t.Error("request context has no deadline")
		}
		c.Status(http.StatusNoContent)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d", w.Code)
	}
}

func TestValidateGinMode(t *testing.T) {
	for _, mode := range []string{gin.DebugMode, gin.ReleaseMode, gin.TestMode} {
		if err := validateGinMode(mode); err != nil {
			t.Errorf("validateGinMode(%q) error = %v", mode, err)
		}
	}
	if err := validateGinMode("production"); err == nil {
		t.Error("validateGinMode(production) error = nil")
	}
}

func TestRun_ReturnsError_WhenListenFails(t *testing.T) {
	originalNewHTTPServer := newHTTPServer
	originalNotifyContext := notifyContext
	defer func() {
		newHTTPServer = originalNewHTTPServer
		notifyContext = originalNotifyContext
	}()

	listenErr := errors.New("listen failed")
	newHTTPServer = func(string, http.Handler) httpServer {
		return &fakeHTTPServer{listenErr: listenErr}
	}
	notifyContext = func(context.Context, ...os.Signal) (context.Context, context.CancelFunc) {
		return context.WithCancel(context.Background())
	}

	a := &App{
		engine: gin.New(),
		logger: logger.Default(),
		cfg:    &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080}},
	}

	err := a.Run()
	if !errors.Is(err, listenErr) || !strings.Contains(err.Error(), "server error") {
		t.Fatalf("Run() error = %v, want wrapped %v", err, listenErr)
	}
}

func TestRun_ShutdownSignal_ClosesSessionDatabase(t *testing.T) {
	originalNewHTTPServer := newHTTPServer
	originalNotifyContext := notifyContext
	defer func() {
		newHTTPServer = originalNewHTTPServer
		notifyContext = originalNotifyContext
	}()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB() error = %v", err)
	}
	store := session.NewStore(session.NewDBBackend(db), session.Options{})
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	server := &fakeHTTPServer{listenStarted: make(chan struct{}), stopCh: make(chan struct{})}
	newHTTPServer = func(string, http.Handler) httpServer { return server }
	ctx, cancel := context.WithCancel(context.Background())
	notifyContext = func(context.Context, ...os.Signal) (context.Context, context.CancelFunc) {
		return ctx, cancel
	}

	a := &App{
		engine: gin.New(),
		db:     db,
		store:  store,
		logger: logger.Default(),
		cfg:    &config.Config{Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080}},
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	select {
	case <-server.listenStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("server did not start listening in time")
	}
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return in time after shutdown signal")
	}

	if !server.wasShutdownCalled() {
		t.Fatal("expected server Shutdown() to be called")
	}
	if err := sqlDB.Ping(); err == nil {
		t.Fatal("expected the session database to be closed")
	}
	if _, err := store.Create(context.Background(), domain.User{ID: "u"}, "tok"); !errors.Is(err, session.ErrNotInitialized) {
		t.Errorf("store still usable after Run: %v", err)
	}
}

func TestHealthJSONShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", healthHandler([]HealthCheck{
		{Name: "session_store", Ping: func(context.Context) error { return nil }},
		{Name: "hyve_api", Ping: func(context.Context) error { return errors.New("down") }},
	}))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Errorf("status = %d %q", w.Code, body.Status)
	}
	if body.Components["session_store"] != "ok" || body.Components["hyve_api"] != "error" {
		t.Errorf("components = %v", body.Components)
	}
}
