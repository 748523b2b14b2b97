package domain

import (
	"strings"
	"time"
)

// Role is the account type of a console user as reported by the HYVE API.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCenterAdmin Role = "center_admin"
	RoleClient      Role = "client"
	RoleFreelancer  Role = "freelancer"
)

// ParseRole normalises a role string from the API ("CENTER-ADMIN",
// "centerAdmin", "center_admin" all map to RoleCenterAdmin).
func ParseRole(s string) Role {
	r := strings.ToLower(strings.TrimSpace(s))
	r = strings.NewReplacer("-", "_", " ", "_").Replace(r)
	switch r {
	case "admin", "super_admin", "superadmin":
		return RoleAdmin
	case "center_admin", "centeradmin":
		return RoleCenterAdmin
	case "client", "company":
		return RoleClient
	case "freelancer":
		return RoleFreelancer
	}
	return Role(r)
}

// Capability is something a route can require of a session.
type Capability string

const (
	// CapConsole opens the admin console screens.
	CapConsole Capability = "console"
	// CapAdmin is held by full administrators only.
	CapAdmin Capability = "admin"
)

// User is the account returned by the HYVE login endpoint.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	IsAdmin            bool   `json:"isAdmin"`
	IsCenterAdmin      bool   `json:"isCenterAdmin"`
	OnboardingComplete bool   `json:"onboardingComplete"`
}

// Session is the authenticated console user: identity, role flags and the
// bearer token used against the HYVE API.
type Session struct {
	ID                 string
	UserID             string
	Email              string
	Name               string
	Role               Role
	IsAdmin            bool
	IsCenterAdmin      bool
	OnboardingComplete bool
	Token              string
	ExpiresAt          time.Time
}

// IsAuthenticated reports whether s carries a token that has not expired.
// A nil session is not authenticated.
func (s *Session) IsAuthenticated() bool {
	return s.AuthenticatedAt(time.Now())
}

// AuthenticatedAt is IsAuthenticated evaluated at now.
func (s *Session) AuthenticatedAt(now time.Time) bool {
	if s == nil || s.Token == "" || s.UserID == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// Has reports whether the session holds capability c.
func (s *Session) Has(c Capability) bool {
	if s == nil {
		return false
	}
	switch c {
	case "":
		return true
	case CapAdmin:
		return s.IsAdmin
	case CapConsole:
		return s.IsAdmin || s.IsCenterAdmin || s.Role == RoleAdmin || s.Role == RoleCenterAdmin || s.Role == RoleClient
	}
	return false
}

// EffectiveRole resolves the role used for path restrictions. The admin flag
// wins over the role string so that an admin is never whitelisted.
func (s *Session) EffectiveRole() Role {
	if s == nil {
		return ""
	}
	switch {
	case s.IsAdmin:
		return RoleAdmin
	case s.IsCenterAdmin:
		return RoleCenterAdmin
	}
	return s.Role
}
