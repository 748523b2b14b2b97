package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

const testYAML = `server:
  host: "127.0.0.1"
  port: 3000
  mode: "release"
  csrf_secret: "Test-CSRF-secret-9"
database:
  driver: "postgres"
  sqlite:
    path: "data/test.db"
  postgres:
    host: "db.example.com"
    port: 5433
    user: "admin"
    password: "secret"
    dbname: "sessions"
    sslmode: "require"
  pool:
    max_idle_conns: 5
    max_open_conns: 50
    conn_max_lifetime: "30m"
log:
  level: "info"
  format: "json"
api:
  base_url: "https://api.hyve.example/api/v1/"
  timeout: "5s"
session:
  store: "database"
  namespace: "hyve-test"
  ttl: "2h"
access:
  restricted:
    client:
      default_path: "/projects"
      allow: ["/projects/*", "/dashboard", "/dashboard"]
list:
  page_sizes: [50, 10, 25, 10]
  default_page_size: 25
  search_debounce: "250ms"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// validConfig returns a minimal configuration that passes Validate.
func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080, Mode: "debug"},
		Database: DatabaseConfig{Driver: "sqlite", SQLite: SQLiteConfig{Path: "data/sessions.db"}},
		Log:      LogConfig{Level: "info", Format: "text"},
		API:      APIConfig{BaseURL: "http://localhost:5000/api/v1"},
	}
}

func TestLoad_FullYAML(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, testYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 3000 || cfg.Server.Mode != "release" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Database.Postgres.Host != "db.example.com" || cfg.Database.Postgres.Port != 5433 {
		t.Errorf("Postgres = %+v", cfg.Database.Postgres)
	}
	if cfg.Database.Pool.ConnMaxLifetime != "30m" {
		t.Errorf("Pool.ConnMaxLifetime = %q, want %q", cfg.Database.Pool.ConnMaxLifetime, "30m")
	}
	if cfg.API.BaseURL != "https://api.hyve.example/api/v1" {
		t.Errorf("API.BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.UserAgent != "hyve-admin" {
		t.Errorf("API.UserAgent = %q, want default %q", cfg.API.UserAgent, "hyve-admin")
	}
	if cfg.Session.Namespace != "hyve-test" || cfg.Session.TTL != "2h" {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Session.CookieName != "hyve_session" {
		t.Errorf("Session.CookieName = %q, want default", cfg.Session.CookieName)
	}

	client := cfg.Access.Restricted["client"]
	if want := []string{"/projects/*", "/dashboard", "/projects"}; !slices.Equal(client.Allow, want) {
		t.Errorf("client allow = %v, want %v", client.Allow, want)
	}
	if cfg.Access.LoginPath != "/login" || cfg.Access.HomePath != "/dashboard" || cfg.Access.OnboardingPath != "/onboarding" {
		t.Errorf("Access paths = %+v, want defaults", cfg.Access)
	}

	if want := []int{10, 25, 50}; !slices.Equal(cfg.List.PageSizes, want) {
		t.Errorf("List.PageSizes = %v, want %v", cfg.List.PageSizes, want)
	}
	if cfg.List.DefaultPageSize != 25 {
		t.Errorf("List.DefaultPageSize = %d, want 25", cfg.List.DefaultPageSize)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeTestConfig(t, testYAML)

	t.Setenv("APP__SERVER__PORT", "9090")
	t.Setenv("APP__DATABASE__DRIVER", "sqlite")
	t.Setenv("APP__DATABASE__POOL__MAX_IDLE_CONNS", "20")
	t.Setenv("APP__API__BASE_URL", "http://hyve.internal:5000")
	t.Setenv("APP__SESSION__COOKIE_NAME", "console_sid")
	t.Setenv("APP__LIST__SEARCH_DEBOUNCE", "1s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d (env override)", cfg.Server.Port, 9090)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want %q (env override)", cfg.Database.Driver, "sqlite")
	}
	if cfg.Database.Pool.MaxIdleConns != 20 {
		t.Errorf("Pool.MaxIdleConns = %d, want %d (env override)", cfg.Database.Pool.MaxIdleConns, 20)
	}
	if cfg.API.BaseURL != "http://hyve.internal:5000" {
		t.Errorf("API.BaseURL = %q (env override)", cfg.API.BaseURL)
	}
	if cfg.Session.CookieName != "console_sid" {
		t.Errorf("Session.CookieName = %q, want %q (env override)", cfg.Session.CookieName, "console_sid")
	}
	if cfg.List.SearchDebounce != "1s" {
		t.Errorf("List.SearchDebounce = %q, want %q (env override)", cfg.List.SearchDebounce, "1s")
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q (unchanged)", cfg.Server.Host, "127.0.0.1")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"))
	if err != nil {
		t.Fatalf("Load(configs/config.yaml) error: %v", err)
	}
	if _, ok := cfg.Access.Restricted["center_admin"]; !ok {
		t.Error("shipped config should restrict center_admin")
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Session.Store != "database" {
		t.Errorf("Session.Store = %q, want %q", cfg.Session.Store, "database")
	}
	if cfg.Session.Namespace != "hyve" || cfg.Session.TTL != "12h" {
		t.Errorf("Session = %+v, want defaults", cfg.Session)
	}
	if cfg.API.Timeout != "15s" {
		t.Errorf("API.Timeout = %q, want %q", cfg.API.Timeout, "15s")
	}
	if !slices.Equal(cfg.List.PageSizes, []int{10, 25, 50}) || cfg.List.DefaultPageSize != 10 {
		t.Errorf("List = %+v, want defaults", cfg.List)
	}
	if cfg.List.SearchDebounce != "300ms" {
		t.Errorf("List.SearchDebounce = %q, want %q", cfg.List.SearchDebounce, "300ms")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"invalid mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"blank host", func(c *Config) { c.Server.Host = "   " }, "server.host"},
		{"bad timeout", func(c *Config) { c.Server.Timeout = "soon" }, "server.timeout"},
		{"negative cors max age", func(c *Config) { c.Server.CORS.MaxAge = "-1h" }, "server.cors.max_age"},
		{"rate limit without rps", func(c *Config) { c.Server.RateLimit = RateLimitConfig{Enabled: true, Burst: 1} }, "server.rate_limit.rps"},
		{"rate limit without burst", func(c *Config) { c.Server.RateLimit = RateLimitConfig{Enabled: true, RPS: 1} }, "server.rate_limit.burst"},
		{"weak csrf secret in release", func(c *Config) {
			c.Server.Mode = "release"
			c.Server.CSRFSecret = "alllowercase"
		}, "server.csrf_secret"},
		{"unsupported driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"sqlite without path", func(c *Config) { c.Database.SQLite.Path = " " }, "database.sqlite.path"},
		{"postgres without host", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.Postgres = PostgresConfig{Port: 5432, User: "u", DBName: "d", SSLMode: "disable"}
		}, "database.postgres.host"},
		{"postgres bad port", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.Postgres = PostgresConfig{Host: "h", User: "u", DBName: "d", SSLMode: "disable"}
		}, "database.postgres.port"},
		{"postgres without user", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.Postgres = PostgresConfig{Host: "h", Port: 5432, DBName: "d", SSLMode: "disable"}
		}, "database.postgres.user"},
		{"postgres without dbname", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.Postgres = PostgresConfig{Host: "h", Port: 5432, User: "u", SSLMode: "disable"}
		}, "database.postgres.dbname"},
		{"postgres insecure in release", func(c *Config) {
			c.Server.Mode = "release"
			c.Database.Driver = "postgres"
			c.Database.Postgres = PostgresConfig{Host: "h", Port: 5432, User: "u", DBName: "d", SSLMode: "disable"}
		}, "database.postgres.sslmode"},
		{"bad pool lifetime", func(c *Config) { c.Database.Pool.ConnMaxLifetime = "forever" }, "database.pool.conn_max_lifetime"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"missing api base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url"},
		{"api base url without scheme", func(c *Config) { c.API.BaseURL = "hyve.example" }, "api.base_url"},
		{"bad api timeout", func(c *Config) { c.API.Timeout = "0s" }, "api.timeout"},
		{"unknown session store", func(c *Config) { c.Session.Store = "memcached" }, "session.store"},
		{"redis without addr", func(c *Config) { c.Session.Store = "redis" }, "session.redis.addr"},
		{"negative redis db", func(c *Config) { c.Session.Redis.DB = -1 }, "session.redis.db"},
		{"namespace with colon", func(c *Config) { c.Session.Namespace = "a:b" }, "session.namespace"},
		{"bad session ttl", func(c *Config) { c.Session.TTL = "-5m" }, "session.ttl"},
		{"relative login path", func(c *Config) { c.Access.LoginPath = "login" }, "access.login_path"},
		{"relative default path", func(c *Config) {
			c.Access.Restricted = map[string]RoleAccessConfig{"client": {DefaultPath: "projects"}}
		}, "access.restricted.client.default_path"},
		{"relative allow entry", func(c *Config) {
			c.Access.Restricted = map[string]RoleAccessConfig{"client": {DefaultPath: "/projects", Allow: []string{"dashboard"}}}
		}, "access.restricted.client.allow[0]"},
		{"non-positive page size", func(c *Config) { c.List.PageSizes = []int{10, 0} }, "list.page_sizes[1]"},
		{"default page size not offered", func(c *Config) { c.List.DefaultPageSize = 15 }, "list.default_page_size"},
		{"bad debounce", func(c *Config) { c.List.SearchDebounce = "quick" }, "list.search_debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want contains %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_RedisStoreSkipsDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{}
	cfg.Session.Store = "redis"
	cfg.Session.Redis.Addr = "localhost:6379"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

func TestValidate_DefaultPathAddedToWhitelist(t *testing.T) {
	cfg := validConfig()
	cfg.Access.Restricted = map[string]RoleAccessConfig{
		"center_admin": {DefaultPath: " /freelancers ", Allow: []string{"/withdrawals"}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	rule := cfg.Access.Restricted["center_admin"]
	if rule.DefaultPath != "/freelancers" {
		t.Errorf("DefaultPath = %q, want trimmed", rule.DefaultPath)
	}
	if !slices.Contains(rule.Allow, "/freelancers") {
		t.Errorf("Allow = %v, want default path included", rule.Allow)
	}
}

func TestDuration(t *testing.T) {
	if got := Duration("2s", time.Minute); got != 2*time.Second {
		t.Errorf("Duration(2s) = %v", got)
	}
	if got := Duration("", time.Minute); got != time.Minute {
		t.Errorf("Duration(\"\") = %v, want default", got)
	}
}

func TestCountSecretClasses(t *testing.T) {
	tests := []struct {
		secret string
		want   int
	}{
		{"", 0},
		{"abc", 1},
		{"abcABC", 2},
		{"abcABC123", 3},
		{"abcABC123!", 4},
	}
	for _, tt := range tests {
		if got := CountSecretClasses(tt.secret); got != tt.want {
			t.Errorf("CountSecretClasses(%q) = %d, want %d", tt.secret, got, tt.want)
		}
	}
}
