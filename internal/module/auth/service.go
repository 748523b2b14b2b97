package auth

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/hyveapi"
)

// Login outcomes recorded in metrics.
const (
	resultSuccess   = "success"
	resultFailure   = "failure"
	resultForbidden = "forbidden"
	resultError     = "error"
)

// ErrNoConsoleAccess is returned when valid credentials belong to an account
// that cannot open the console.
var ErrNoConsoleAccess = domain.NewAppError(domain.CodeForbidden, "this account cannot use the admin console", nil)

// Authenticator is the part of the HYVE API the auth flow talks to.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*hyveapi.LoginResult, error)
	CompleteOnboarding(ctx context.Context) (*domain.User, error)
}

// SessionStore is the part of the session store the auth flow writes to.
type SessionStore interface {
	Create(ctx context.Context, user domain.User, token string) (*domain.Session, error)
	CompleteOnboarding(ctx context.Context, id string, user *domain.User) (*domain.Session, error)
	Teardown(ctx context.Context, id string) error
}

// LoginRecorder counts login attempts by outcome.
type LoginRecorder interface {
	RecordLogin(result string)
}

// Service defines the console authentication flow.
type Service interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CompleteOnboarding(ctx context.Context, sessionID string) (*domain.Session, error)
}

type authService struct {
	api      Authenticator
	sessions SessionStore
	recorder LoginRecorder
}

// NewService creates a Service. recorder may be nil.
func NewService(api Authenticator, sessions SessionStore, recorder LoginRecorder) Service {
	return &authService{api: api, sessions: sessions, recorder: recorder}
}

// Login checks the credentials with the HYVE API and starts a session. Bad
// credentials come back as a validation error and leave no session behind.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if err := validateLoginInput(email, password); err != nil {
		s.record(resultFailure)
		return nil, err
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		if domain.IsValidation(err) {
			s.record(resultFailure)
		} else {
			s.record(resultError)
		}
		return nil, err
	}
	if !consoleUser(res.User) {
		s.record(resultForbidden)
		slog.WarnContext(ctx, "login refused for account without console access",
			slog.String("user_id", res.User.ID), slog.String("role", res.User.Role))
		return nil, ErrNoConsoleAccess
	}

	sess, err := s.sessions.Create(ctx, res.User, res.Token)
	if err != nil {
		s.record(resultError)
		return nil, err
	}
	s.record(resultSuccess)
	return sess, nil
}

// Logout ends session sessionID. An empty id is a no-op.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Teardown(ctx, sessionID)
}

// CompleteOnboarding tells the HYVE API onboarding is done and records it in
// the session. ctx must carry the session so the request is authenticated.
func (s *authService) CompleteOnboarding(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := s.api.CompleteOnboarding(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.CompleteOnboarding(ctx, sessionID, user)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

func (s *authService) record(result string) {
	if s.recorder != nil {
		s.recorder.RecordLogin(result)
	}
}

func consoleUser(u domain.User) bool {
	probe := domain.Session{Role: domain.ParseRole(u.Role), IsAdmin: u.IsAdmin, IsCenterAdmin: u.IsCenterAdmin}
	return probe.Has(domain.CapConsole)
}

// validateLoginInput expects a trimmed email.
func validateLoginInput(email, password string) error {
	if email == "" {
		return domain.NewAppError(domain.CodeValidation, "email is required", nil)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return domain.NewAppError(domain.CodeValidation, "email must be a valid email address", nil)
	}
	if password == "" {
		return domain.NewAppError(domain.CodeValidation, "password is required", nil)
	}
	return nil
}
