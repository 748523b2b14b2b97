package session

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/listview"
)

// memBackend is an in-memory Backend.
type memBackend struct {
	mu      sync.Mutex
	values  map[string][]byte
	expires map[string]time.Time
	inits   int
}

func newMemBackend() *memBackend {
	return &memBackend{values: map[string][]byte{}, expires: map[string]time.Time{}}
}

func (m *memBackend) Init(context.Context) error { m.inits++; return nil }
func (m *memBackend) Ping(context.Context) error { return nil }
func (m *memBackend) Close() error               { return nil }

func (m *memBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memBackend) Set(_ context.Context, key string, value []byte, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.expires[key] = exp
	return nil
}

func (m *memBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newTestStore(t *testing.T, b Backend) *Store {
	t.Helper()
	s := NewStore(b, Options{Namespace: "hyve", TTL: time.Hour, Logger: quietLogger()})
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return s
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

var adminUser = domain.User{ID: "u-1", Email: "ops@hyve.io", Name: "Ops", Role: "ADMIN", IsAdmin: true, OnboardingComplete: true}

func TestStore_RequiresInit(t *testing.T) {
	s := NewStore(newMemBackend(), Options{})
	if _, err := s.Create(context.Background(), adminUser, "tok"); err != ErrNotInitialized {
		t.Fatalf("Create() before Init error = %v, want ErrNotInitialized", err)
	}
	if _, err := s.Load(context.Background(), "x"); err != ErrNotInitialized {
		t.Fatalf("Load() before Init error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_InitOnce(t *testing.T) {
	b := newMemBackend()
	s := newTestStore(t, b)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if b.inits != 1 {
		t.Errorf("backend Init calls = %d, want 1", b.inits)
	}
}

func TestStore_CreateStoresFlatRecordUnderNamespacedKey(t *testing.T) {
	b := newMemBackend()
	s := newTestStore(t, b)
	s.newID = func() string { return "sid-1" }

	sess, err := s.Create(context.Background(), adminUser, "opaque-token")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID != "sid-1" || sess.Role != domain.RoleAdmin || !sess.IsAdmin {
		t.Errorf("Create() = %+v", sess)
	}

	raw, ok := b.values["hyve:session:sid-1"]
	if !ok {
		t.Fatalf("no value under hyve:session:sid-1; keys = %v", b.values)
	}
	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	for _, v := range flat {
		switch v.(type) {
		case map[string]any, []any:
			t.Fatalf("stored record is not flat: %s", raw)
		}
	}
	if flat["token"] != "opaque-token" || flat["userId"] != "u-1" {
		t.Errorf("stored record = %s", raw)
	}
}

func TestStore_CreateUsesTokenExpiryAndSubject(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	exp := now.Add(20 * time.Minute)
	tok := signedToken(t, jwt.MapClaims{"sub": "u-from-token", "exp": exp.Unix()})

	sess, err := s.Create(context.Background(), domain.User{Role: "client"}, tok)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !sess.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want token expiry %v", sess.ExpiresAt, exp)
	}
	if sess.UserID != "u-from-token" {
		t.Errorf("UserID = %q, want subject from token", sess.UserID)
	}

	longTok := signedToken(t, jwt.MapClaims{"sub": "u", "exp": now.Add(48 * time.Hour).Unix()})
	sess, err = s.Create(context.Background(), adminUser, longTok)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if want := now.Add(time.Hour); !sess.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want TTL bound %v", sess.ExpiresAt, want)
	}
}

func TestStore_CreateRejects(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	expired := signedToken(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()})

	tests := []struct {
		name  string
		user  domain.User
		token string
	}{
		{"missing token", adminUser, ""},
		{"unknown user", domain.User{}, "opaque"},
		{"expired token", adminUser, expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(context.Background(), tt.user, tt.token); !domain.IsValidation(err) {
				t.Fatalf("Create() error = %v, want validation", err)
			}
		})
	}
}

func TestStore_LoadMissingAndExpired(t *testing.T) {
	b := newMemBackend()
	s := newTestStore(t, b)
	ctx := context.Background()

	if sess, err := s.Load(ctx, ""); sess != nil || err != nil {
		t.Fatalf("Load(\"\") = %v, %v", sess, err)
	}
	if sess, err := s.Load(ctx, "nope"); sess != nil || err != nil {
		t.Fatalf("Load(missing) = %v, %v", sess, err)
	}

	sess, err := s.Create(ctx, adminUser, "tok")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	got, err := s.Load(ctx, sess.ID)
	if err != nil || got != nil {
		t.Fatalf("Load(expired) = %v, %v; want nil, nil", got, err)
	}
	if _, ok := b.values[s.Key(sess.ID)]; ok {
		t.Error("expired session should be removed")
	}
}

func TestStore_LoadDiscardsCorruptRecord(t *testing.T) {
	b := newMemBackend()
	s := newTestStore(t, b)
	b.values[s.Key("bad")] = []byte("{not json")

	sess, err := s.Load(context.Background(), "bad")
	if sess != nil || err != nil {
		t.Fatalf("Load(corrupt) = %v, %v; want nil, nil", sess, err)
	}
	if _, ok := b.values[s.Key("bad")]; ok {
		t.Error("corrupt record should be removed")
	}
}

func TestStore_CompleteOnboardingAndRefresh(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	ctx := context.Background()
	user := domain.User{ID: "u-2", Role: "client"}

	sess, err := s.Create(ctx, user, "tok-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.OnboardingComplete {
		t.Fatal("new client should not be onboarded")
	}

	if _, err := s.CompleteOnboarding(ctx, sess.ID, &domain.User{Name: "Acme Ltd"}); err != nil {
		t.Fatalf("CompleteOnboarding() error = %v", err)
	}
	if _, err := s.RefreshToken(ctx, sess.ID, "tok-2"); err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}

	got, err := s.Load(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("Load() = %v, %v", got, err)
	}
	if !got.OnboardingComplete || got.Name != "Acme Ltd" || got.Token != "tok-2" {
		t.Errorf("Load() = %+v", got)
	}

	if _, err := s.CompleteOnboarding(ctx, "gone", nil); !domain.IsUnauthorized(err) {
		t.Errorf("CompleteOnboarding(missing) error = %v, want unauthorized", err)
	}
}

func TestStore_TeardownRunsHooks(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	ctx := context.Background()
	var torn []string
	s.OnTeardown(func(id string) { torn = append(torn, id) })

	sess, _ := s.Create(ctx, adminUser, "tok")
	if err := s.Teardown(ctx, sess.ID); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if len(torn) != 1 || torn[0] != sess.ID {
		t.Errorf("hooks saw %v, want [%s]", torn, sess.ID)
	}
	if got, _ := s.Load(ctx, sess.ID); got != nil {
		t.Error("session should be gone after Teardown")
	}
}

// A session the backend expires on its own is never torn down, so Load runs
// the teardown hooks when the record has gone missing.
func TestStore_LoadExpiredByBackendDropsLists(t *testing.T) {
	backend := newDBBackend(t)
	s := newTestStore(t, backend)
	ctx := context.Background()

	lists := listview.NewRegistry()
	s.OnTeardown(lists.Drop)

	sess, err := s.Create(ctx, adminUser, "tok")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	listview.Lookup(lists, sess.ID, "freelancers", func() *listview.Controller[domain.Freelancer] {
		return listview.New(nil, func(context.Context, domain.ListQuery) (domain.ListResult[domain.Freelancer], error) {
			return domain.ListResult[domain.Freelancer]{}, nil
		}, listview.Options{})
	})

	later := time.Now().Add(2 * time.Hour)
	s.now = func() time.Time { return later }
	backend.now = func() time.Time { return later.UTC() }

	got, err := s.Load(ctx, sess.ID)
	if got != nil || err != nil {
		t.Fatalf("Load() = %v, %v, want nil, nil", got, err)
	}
	if n := lists.Len(); n != 0 {
		t.Errorf("registry holds %d sessions after expiry, want 0", n)
	}
}

func TestStore_TokenAndInvalidate(t *testing.T) {
	s := newTestStore(t, newMemBackend())
	ctx := context.Background()

	if tok, err := s.Token(ctx); tok != "" || err != nil {
		t.Fatalf("Token(no session) = %q, %v", tok, err)
	}
	if err := s.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate(no session) error = %v", err)
	}

	sess, _ := s.Create(ctx, adminUser, "tok-xyz")
	ctx = NewContext(ctx, sess)
	if tok, _ := s.Token(ctx); tok != "tok-xyz" {
		t.Errorf("Token() = %q, want %q", tok, "tok-xyz")
	}
	if err := s.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if got, _ := s.Load(ctx, sess.ID); got != nil {
		t.Error("session should be gone after Invalidate")
	}
}

func openSQLite(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// A session written by one store must read back identically from a fresh
// store over the same database, as after a console restart.
func TestStore_PersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	ctx := context.Background()

	first := newTestStore(t, NewDBBackend(openSQLite(t, path)))
	want, err := first.Create(ctx, domain.User{
		ID: "u-9", Email: "center@hyve.io", Name: "Center", Role: "CENTER-ADMIN", IsCenterAdmin: true,
	}, "tok-round-trip")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second := newTestStore(t, NewDBBackend(openSQLite(t, path)))
	got, err := second.Load(ctx, want.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got == nil {
		t.Fatal("Load() = nil, want the persisted session")
	}

	if got.ID != want.ID || got.UserID != want.UserID || got.Email != want.Email || got.Name != want.Name ||
		got.Role != want.Role || got.IsAdmin != want.IsAdmin || got.IsCenterAdmin != want.IsCenterAdmin ||
		got.OnboardingComplete != want.OnboardingComplete || got.Token != want.Token {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, want)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}
	if got.IsAuthenticated() != want.IsAuthenticated() {
		t.Error("derived authentication state differs after round trip")
	}
}
