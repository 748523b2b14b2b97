// Package guard decides whether a session may reach a console screen. Guards
// are pure: they read the session and the target and return a Decision. The
// HTTP layer turns decisions into redirects.
package guard

import (
	"strings"
	"time"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// Target describes the screen being requested.
type Target struct {
	// Path is the screen path, e.g. "/freelancers/42".
	Path string
	// Public screens skip the chain entirely.
	Public bool
	// Capability required to open the screen, if any.
	Capability domain.Capability
	// RequiresOnboarding keeps users with unfinished onboarding out.
	RequiresOnboarding bool
	// Onboarding marks the onboarding screen itself.
	Onboarding bool
}

// Decision is the verdict of a guard. A denied decision with an empty
// RedirectTo means no screen can be offered and the request is forbidden.
type Decision struct {
	Allow      bool
	RedirectTo string
	// Guard names the guard that denied the request.
	Guard string
}

// Forbidden reports a denial without a redirect target.
func (d Decision) Forbidden() bool { return !d.Allow && d.RedirectTo == "" }

var allow = Decision{Allow: true}

// Guard is one step of the chain.
type Guard interface {
	Name() string
	Check(s *domain.Session, t Target) Decision
}

// redirect builds a denial that never points back at the target. When to
// equals the target path, fallback is used; when both do, the request is
// forbidden.
func redirect(name, to, fallback string, t Target) Decision {
	switch {
	case !samePath(to, t.Path):
		return Decision{RedirectTo: to, Guard: name}
	case fallback != "" && !samePath(fallback, t.Path):
		return Decision{RedirectTo: fallback, Guard: name}
	}
	return Decision{Guard: name}
}

func samePath(a, b string) bool {
	return cleanPath(a) == cleanPath(b)
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// Authenticated sends visitors without a valid session to the login screen.
type Authenticated struct {
	LoginPath string
	Now       func() time.Time
}

func (Authenticated) Name() string { return "authenticated" }

func (g Authenticated) Check(s *domain.Session, t Target) Decision {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	if s.AuthenticatedAt(now()) {
		return allow
	}
	return redirect(g.Name(), g.LoginPath, "", t)
}

// RequireCapability sends sessions lacking the target's capability home.
type RequireCapability struct {
	HomePath  string
	LoginPath string
}

func (RequireCapability) Name() string { return "capability" }

func (g RequireCapability) Check(s *domain.Session, t Target) Decision {
	if s.Has(t.Capability) {
		return allow
	}
	return redirect(g.Name(), g.HomePath, g.LoginPath, t)
}

// Whitelist lists the screens a restricted role may open. Entries ending in
// "/*" also match every sub path.
type Whitelist struct {
	DefaultPath string
	Allow       []string
}

// Permits reports whether path is on the whitelist.
func (w Whitelist) Permits(path string) bool {
	p := cleanPath(path)
	for _, entry := range w.Allow {
		if prefix, ok := strings.CutSuffix(entry, "/*"); ok {
			prefix = cleanPath(prefix)
			if p == prefix || strings.HasPrefix(p, strings.TrimRight(prefix, "/")+"/") {
				return true
			}
			continue
		}
		if p == cleanPath(entry) {
			return true
		}
	}
	return false
}

// RoleWhitelist confines restricted roles to their whitelist. Roles without
// a rule are unrestricted.
type RoleWhitelist struct {
	Rules    map[domain.Role]Whitelist
	HomePath string
}

func (RoleWhitelist) Name() string { return "role_whitelist" }

func (g RoleWhitelist) Check(s *domain.Session, t Target) Decision {
	rule, restricted := g.Rules[s.EffectiveRole()]
	if !restricted || rule.Permits(t.Path) {
		return allow
	}
	return redirect(g.Name(), rule.DefaultPath, g.HomePath, t)
}

// Onboarding holds users on the onboarding screen until they finish it and
// keeps them off it afterwards. Administrators are never onboarded.
type Onboarding struct {
	OnboardingPath string
	HomePath       string
}

func (Onboarding) Name() string { return "onboarding" }

func (g Onboarding) Check(s *domain.Session, t Target) Decision {
	pending := !s.OnboardingComplete && !s.IsAdmin && !s.IsCenterAdmin
	switch {
	case t.RequiresOnboarding && pending:
		return redirect(g.Name(), g.OnboardingPath, "", t)
	case t.Onboarding && !pending:
		return redirect(g.Name(), g.HomePath, "", t)
	}
	return allow
}
