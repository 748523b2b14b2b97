package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level console configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	API      APIConfig      `koanf:"api"`
	Session  SessionConfig  `koanf:"session"`
	Access   AccessConfig   `koanf:"access"`
	List     ListConfig     `koanf:"list"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host       string          `koanf:"host"`
	Port       int             `koanf:"port"`
	Mode       string          `koanf:"mode"`
	CSRFSecret string          `koanf:"csrf_secret"`
	Timeout    string          `koanf:"timeout"`
	CORS       CORSConfig      `koanf:"cors"`
	RateLimit  RateLimitConfig `koanf:"rate_limit"`
}

// CORSConfig holds CORS settings for the JSON API.
type CORSConfig struct {
	AllowOrigins     []string `koanf:"allow_origins"`
	AllowMethods     []string `koanf:"allow_methods"`
	AllowHeaders     []string `koanf:"allow_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           string   `koanf:"max_age"`
}

// RateLimitConfig throttles login attempts per client IP.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// DatabaseConfig holds the connection settings of the session database.
type DatabaseConfig struct {
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// APIConfig points the console at the HYVE REST API.
type APIConfig struct {
	BaseURL   string `koanf:"base_url"`
	Timeout   string `koanf:"timeout"`
	UserAgent string `koanf:"user_agent"`
}

// SessionConfig selects and tunes the session backend.
type SessionConfig struct {
	Store      string      `koanf:"store"`
	CookieName string      `koanf:"cookie_name"`
	Namespace  string      `koanf:"namespace"`
	TTL        string      `koanf:"ttl"`
	Secure     bool        `koanf:"secure"`
	Redis      RedisConfig `koanf:"redis"`
}

// RedisConfig holds the redis session backend connection.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// AccessConfig holds guard redirect targets and the path whitelists of
// restricted roles, keyed by role name.
type AccessConfig struct {
	LoginPath      string                      `koanf:"login_path"`
	HomePath       string                      `koanf:"home_path"`
	OnboardingPath string                      `koanf:"onboarding_path"`
	Restricted     map[string]RoleAccessConfig `koanf:"restricted"`
}

// RoleAccessConfig is the whitelist of one restricted role. Allow entries
// ending in "/*" match any sub path.
type RoleAccessConfig struct {
	DefaultPath string   `koanf:"default_path"`
	Allow       []string `koanf:"allow"`
}

// ListConfig holds list view defaults shared by every resource screen.
type ListConfig struct {
	PageSizes       []int  `koanf:"page_sizes"`
	DefaultPageSize int    `koanf:"default_page_size"`
	SearchDebounce  string `koanf:"search_debounce"`
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator. Single underscores are preserved as part of the key name,
// so APP__API__BASE_URL overrides api.base_url and
// APP__SESSION__REDIS__ADDR overrides session.redis.addr.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("APP__", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func envKey(s string) string {
	key := strings.TrimPrefix(s, "APP__")
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "__", ".")
}

// Validate checks cross-field constraints and supported values, normalising
// fields in place and filling defaults for optional ones.
func (c *Config) Validate() error {
	steps := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateLog,
		c.validateAPI,
		c.validateSession,
		c.validateAccess,
		c.validateList,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	if err := optionalDuration("server.timeout", &c.Server.Timeout); err != nil {
		return err
	}
	if err := optionalDuration("server.cors.max_age", &c.Server.CORS.MaxAge); err != nil {
		return err
	}

	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RPS <= 0 {
			return fmt.Errorf("invalid server.rate_limit.rps %v: must be positive when rate limiting is enabled", c.Server.RateLimit.RPS)
		}
		if c.Server.RateLimit.Burst <= 0 {
			return fmt.Errorf("invalid server.rate_limit.burst %d: must be positive when rate limiting is enabled", c.Server.RateLimit.Burst)
		}
	}

	secret := strings.TrimSpace(c.Server.CSRFSecret)
	if c.Server.Mode == gin.ReleaseMode && secret != "" && CountSecretClasses(secret) < 3 {
		return fmt.Errorf("server.csrf_secret must include at least 3 character classes (lowercase, uppercase, digit, symbol) in release mode")
	}
	c.Server.CSRFSecret = secret
	return nil
}

func (c *Config) validateDatabase() error {
	// The database only backs sessions; a redis store leaves it unused.
	if strings.EqualFold(strings.TrimSpace(c.Session.Store), "redis") && c.Database.Driver == "" {
		return nil
	}

	switch c.Database.Driver {
	case "sqlite":
		path := strings.TrimSpace(c.Database.SQLite.Path)
		if path == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.Database.SQLite.Path = path
	case "postgres":
		if err := c.validatePostgres(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Database.Driver, "sqlite", "postgres")
	}

	return optionalDuration("database.pool.conn_max_lifetime", &c.Database.Pool.ConnMaxLifetime)
}

func (c *Config) validatePostgres() error {
	pg := &c.Database.Postgres
	pg.Host = strings.TrimSpace(pg.Host)
	pg.User = strings.TrimSpace(pg.User)
	pg.DBName = strings.TrimSpace(pg.DBName)
	pg.SSLMode = strings.TrimSpace(pg.SSLMode)

	if pg.Host == "" {
		return fmt.Errorf("database.postgres.host is required when driver is postgres")
	}
	if pg.Port < 1 || pg.Port > 65535 {
		return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
	}
	if pg.User == "" {
		return fmt.Errorf("database.postgres.user is required when driver is postgres")
	}
	if pg.DBName == "" {
		return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
	}

	allowed := []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}
	if c.Server.Mode == gin.ReleaseMode {
		allowed = []string{"require", "verify-ca", "verify-full"}
	}
	if !slices.Contains(allowed, pg.SSLMode) {
		return fmt.Errorf("invalid database.postgres.sslmode %q for server.mode %q: must be one of %s", pg.SSLMode, c.Server.Mode, strings.Join(allowed, ", "))
	}
	return nil
}

func (c *Config) validateLog() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}
	return nil
}

func (c *Config) validateAPI() error {
	base := strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if base == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("invalid api.base_url %q: must start with http:// or https://", c.API.BaseURL)
	}
	c.API.BaseURL = base

	if strings.TrimSpace(c.API.Timeout) == "" {
		c.API.Timeout = "15s"
	}
	if err := optionalDuration("api.timeout", &c.API.Timeout); err != nil {
		return err
	}

	c.API.UserAgent = strings.TrimSpace(c.API.UserAgent)
	if c.API.UserAgent == "" {
		c.API.UserAgent = "hyve-admin"
	}
	return nil
}

func (c *Config) validateSession() error {
	s := &c.Session
	s.Store = strings.ToLower(strings.TrimSpace(s.Store))
	switch s.Store {
	case "":
		s.Store = "database"
	case "database", "redis":
	default:
		return fmt.Errorf("invalid session.store %q: must be one of %q, %q", s.Store, "database", "redis")
	}

	if s.Store == "redis" && strings.TrimSpace(s.Redis.Addr) == "" {
		return fmt.Errorf("session.redis.addr is required when store is redis")
	}
	if s.Redis.DB < 0 {
		return fmt.Errorf("invalid session.redis.db %d: must not be negative", s.Redis.DB)
	}

	s.CookieName = strings.TrimSpace(s.CookieName)
	if s.CookieName == "" {
		s.CookieName = "hyve_session"
	}
	s.Namespace = strings.TrimSpace(s.Namespace)
	if s.Namespace == "" {
		s.Namespace = "hyve"
	}
	if strings.Contains(s.Namespace, ":") {
		return fmt.Errorf("invalid session.namespace %q: must not contain ':'", s.Namespace)
	}

	if strings.TrimSpace(s.TTL) == "" {
		s.TTL = "12h"
	}
	return optionalDuration("session.ttl", &s.TTL)
}

func (c *Config) validateAccess() error {
	a := &c.Access
	paths := []struct {
		name  string
		value *string
		def   string
	}{
		{"access.login_path", &a.LoginPath, "/login"},
		{"access.home_path", &a.HomePath, "/dashboard"},
		{"access.onboarding_path", &a.OnboardingPath, "/onboarding"},
	}
	for _, p := range paths {
		v := strings.TrimSpace(*p.value)
		if v == "" {
			v = p.def
		}
		if !strings.HasPrefix(v, "/") {
			return fmt.Errorf("invalid %s %q: must start with '/'", p.name, *p.value)
		}
		*p.value = v
	}

	for role, rule := range a.Restricted {
		rule.DefaultPath = strings.TrimSpace(rule.DefaultPath)
		if !strings.HasPrefix(rule.DefaultPath, "/") {
			return fmt.Errorf("invalid access.restricted.%s.default_path %q: must start with '/'", role, rule.DefaultPath)
		}
		allow := make([]string, 0, len(rule.Allow)+1)
		for idx, p := range rule.Allow {
			p = strings.TrimSpace(p)
			if !strings.HasPrefix(p, "/") {
				return fmt.Errorf("invalid access.restricted.%s.allow[%d] %q: must start with '/'", role, idx, p)
			}
			if !slices.Contains(allow, p) {
				allow = append(allow, p)
			}
		}
		if !slices.Contains(allow, rule.DefaultPath) {
			// The default path must itself be reachable or the guard would loop.
			allow = append(allow, rule.DefaultPath)
		}
		rule.Allow = allow
		a.Restricted[role] = rule
	}
	return nil
}

func (c *Config) validateList() error {
	l := &c.List
	if len(l.PageSizes) == 0 {
		l.PageSizes = []int{10, 25, 50}
	}
	for idx, size := range l.PageSizes {
		if size <= 0 {
			return fmt.Errorf("invalid list.page_sizes[%d] %d: must be positive", idx, size)
		}
	}
	slices.Sort(l.PageSizes)
	l.PageSizes = slices.Compact(l.PageSizes)

	if l.DefaultPageSize == 0 {
		l.DefaultPageSize = l.PageSizes[0]
	}
	if !slices.Contains(l.PageSizes, l.DefaultPageSize) {
		return fmt.Errorf("invalid list.default_page_size %d: must be one of list.page_sizes %v", l.DefaultPageSize, l.PageSizes)
	}

	if strings.TrimSpace(l.SearchDebounce) == "" {
		l.SearchDebounce = "300ms"
	}
	return optionalDuration("list.search_debounce", &l.SearchDebounce)
}

// optionalDuration trims *v and, when it is set, requires a positive Go
// duration.
func optionalDuration(name string, v *string) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be a valid duration (e.g. \"30s\", \"12h\"): %w", name, *v, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s %q: must be greater than 0", name, *v)
	}
	return nil
}

// Duration parses a duration that Validate has already checked, returning def
// when it is unset.
func Duration(v string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	return def
}

// CountSecretClasses counts how many character classes (lowercase, uppercase,
// digit, symbol) are present in the given secret string.
func CountSecretClasses(secret string) int {
	var lower, upper, digit, symbol int
	for _, r := range secret {
		switch {
		case unicode.IsLower(r):
			lower = 1
		case unicode.IsUpper(r):
			upper = 1
		case unicode.IsDigit(r):
			digit = 1
		default:
			symbol = 1
		}
	}
	return lower + upper + digit + symbol
}
