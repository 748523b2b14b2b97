// Package session owns the authenticated console session: creation at login,
// persistence in a Backend under a namespaced key, onboarding and token
// updates, and teardown on logout or when the HYVE API rejects the token.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// ErrNotInitialized is returned by a Store used before Init.
var ErrNotInitialized = errors.New("session store not initialized")

// Options configures a Store.
type Options struct {
	// Namespace prefixes every key: "<namespace>:session:<id>".
	Namespace string
	// TTL bounds a session's lifetime. A token expiring earlier wins.
	TTL    time.Duration
	Logger *slog.Logger
}

// Store is the single writer of session state.
type Store struct {
	backend   Backend
	namespace string
	ttl       time.Duration
	logger    *slog.Logger

	now   func() time.Time
	newID func() string

	mu          sync.RWMutex
	initialized bool
	hooks       []func(id string)
}

// record is the flat JSON form of a session.
type record struct {
	UserID             string `json:"userId"`
	Email              string `json:"email,omitempty"`
	Name               string `json:"name,omitempty"`
	Role               string `json:"role,omitempty"`
	IsAdmin            bool   `json:"isAdmin"`
	IsCenterAdmin      bool   `json:"isCenterAdmin"`
	OnboardingComplete bool   `json:"onboardingComplete"`
	Token              string `json:"token"`
	ExpiresAt          int64  `json:"expiresAt"`
}

// NewStore creates a Store over backend. Call Init before use.
func NewStore(backend Backend, opts Options) *Store {
	if opts.Namespace == "" {
		opts.Namespace = "hyve"
	}
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		backend:   backend,
		namespace: opts.Namespace,
		ttl:       opts.TTL,
		logger:    opts.Logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Init prepares the backend. It is safe to call more than once.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := s.backend.Init(ctx); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

// Close releases the backend. The store cannot be used afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	s.initialized = false
	s.mu.Unlock()
	return s.backend.Close()
}

// Ping reports backend health.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// OnTeardown registers fn to run with the id of every torn down session.
func (s *Store) OnTeardown(fn func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Key returns the backend key of session id.
func (s *Store) Key(id string) string {
	return s.namespace + ":session:" + id
}

// Create starts a session for user authenticated with token.
func (s *Store) Create(ctx context.Context, user domain.User, token string) (*domain.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "login response did not include a token", nil)
	}

	claims, _ := parseToken(token)
	userID := user.ID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "login response did not identify the user", nil)
	}

	sess := &domain.Session{
		ID:                 s.newID(),
		UserID:             userID,
		Email:              user.Email,
		Name:               user.Name,
		Role:               domain.ParseRole(user.Role),
		IsAdmin:            user.IsAdmin,
		IsCenterAdmin:      user.IsCenterAdmin,
		OnboardingComplete: user.OnboardingComplete,
		Token:              token,
		ExpiresAt:          s.expiry(claims),
	}
	if !sess.AuthenticatedAt(s.now()) {
		return nil, domain.NewAppError(domain.CodeValidation, "the issued token has already expired", nil)
	}
	if err := s.put(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "session created",
		slog.String("user_id", sess.UserID),
		slog.String("role", string(sess.EffectiveRole())),
		slog.Time("expires_at", sess.ExpiresAt),
	)
	return sess, nil
}

// Load returns session id, or nil when it does not exist or has expired.
// Expired and unreadable records are removed, and teardown hooks run for
// every session found missing.
func (s *Store) Load(ctx context.Context, id string) (*domain.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}

	data, ok, err := s.backend.Get(ctx, s.Key(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		// The backend expired the record on its own.
		s.notify(id)
		return nil, nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable session", slog.Any("error", err))
		return nil, s.Teardown(ctx, id)
	}
	sess := rec.session(id)
	if !sess.AuthenticatedAt(s.now()) {
		return nil, s.Teardown(ctx, id)
	}
	return sess, nil
}

// RefreshToken replaces the bearer token of session id.
func (s *Store) RefreshToken(ctx context.Context, id, token string) (*domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) {
		claims, _ := parseToken(token)
		sess.Token = token
		sess.ExpiresAt = s.expiry(claims)
	})
}

// CompleteOnboarding marks session id as onboarded. Identity fields are
// refreshed from user when it is not nil.
func (s *Store) CompleteOnboarding(ctx context.Context, id string, user *domain.User) (*domain.Session, error) {
	return s.update(ctx, id, func(sess *domain.Session) {
		sess.OnboardingComplete = true
		if user == nil {
			return
		}
		if user.Name != "" {
			sess.Name = user.Name
		}
		if user.Email != "" {
			sess.Email = user.Email
		}
	})
}

// Teardown deletes session id and notifies OnTeardown hooks.
func (s *Store) Teardown(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.backend.Delete(ctx, s.Key(id)); err != nil {
		return err
	}

	s.notify(id)
	s.logger.InfoContext(ctx, "session torn down")
	return nil
}

func (s *Store) notify(id string) {
	s.mu.RLock()
	hooks := append([]func(string){}, s.hooks...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(id)
	}
}

// Token returns the bearer token of the session carried by ctx, or "" when
// there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	if sess := FromContext(ctx); sess != nil {
		return sess.Token, nil
	}
	return "", nil
}

// Invalidate tears down the session carried by ctx. The HYVE API client
// calls it when a request is rejected with 401.
func (s *Store) Invalidate(ctx context.Context) error {
	id := IDFromContext(ctx)
	if id == "" {
		return nil
	}
	s.logger.WarnContext(ctx, "hyve api rejected session token")
	return s.Teardown(ctx, id)
}

func (s *Store) update(ctx context.Context, id string, mutate func(*domain.Session)) (*domain.Session, error) {
	sess, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	mutate(sess)
	if err := s.put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Store) put(ctx context.Context, sess *domain.Session) error {
	data, err := json.Marshal(newRecord(sess))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.backend.Set(ctx, s.Key(sess.ID), data, sess.ExpiresAt)
}

func (s *Store) expiry(claims tokenClaims) time.Time {
	exp := s.now().Add(s.ttl)
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(exp) {
		exp = claims.ExpiresAt
	}
	return exp.Truncate(time.Second)
}

func (s *Store) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}

func newRecord(sess *domain.Session) record {
	return record{
		UserID:             sess.UserID,
		Email:              sess.Email,
		Name:               sess.Name,
		Role:               string(sess.Role),
		IsAdmin:            sess.IsAdmin,
		IsCenterAdmin:      sess.IsCenterAdmin,
		OnboardingComplete: sess.OnboardingComplete,
		Token:              sess.Token,
		ExpiresAt:          sess.ExpiresAt.Unix(),
	}
}

func (r record) session(id string) *domain.Session {
	sess := &domain.Session{
		ID:                 id,
		UserID:             r.UserID,
		Email:              r.Email,
		Name:               r.Name,
		Role:               domain.Role(r.Role),
		IsAdmin:            r.IsAdmin,
		IsCenterAdmin:      r.IsCenterAdmin,
		OnboardingComplete: r.OnboardingComplete,
		Token:              r.Token,
	}
	if r.ExpiresAt > 0 {
		sess.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	}
	return sess
}
