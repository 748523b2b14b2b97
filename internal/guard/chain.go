package guard

import (
	"time"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// Config holds the redirect targets and role rules of the standard chain.
type Config struct {
	LoginPath      string
	HomePath       string
	OnboardingPath string
	Restricted     map[domain.Role]Whitelist
	Now            func() time.Time
}

// Chain evaluates guards in order and stops at the first denial.
type Chain struct {
	guards []Guard
}

// NewChain builds the standard chain: Authenticated, RequireCapability,
// RoleWhitelist, Onboarding.
func NewChain(cfg Config) *Chain {
	return Of(
		Authenticated{LoginPath: cfg.LoginPath, Now: cfg.Now},
		RequireCapability{HomePath: cfg.HomePath, LoginPath: cfg.LoginPath},
		RoleWhitelist{Rules: cfg.Restricted, HomePath: cfg.HomePath},
		Onboarding{OnboardingPath: cfg.OnboardingPath, HomePath: cfg.HomePath},
	)
}

// Of builds a chain from guards in the given order.
func Of(guards ...Guard) *Chain {
	return &Chain{guards: guards}
}

// Evaluate runs the chain for s requesting t.
func (c *Chain) Evaluate(s *domain.Session, t Target) Decision {
	if t.Public {
		return allow
	}
	for _, g := range c.guards {
		if d := g.Check(s, t); !d.Allow {
			return d
		}
	}
	return allow
}
