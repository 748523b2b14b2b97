package domain

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := map[string]Role{
		"ADMIN":        RoleAdmin,
		"CENTER-ADMIN": RoleCenterAdmin,
		"center_admin": RoleCenterAdmin,
		"centerAdmin":  RoleCenterAdmin,
		" client ":     RoleClient,
		"Freelancer":   RoleFreelancer,
		"auditor":      Role("auditor"),
	}
	for in, want := range tests {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestSession_AuthenticatedAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		s    *Session
		want bool
	}{
		{"nil session", nil, false},
		{"no token", &Session{UserID: "u1"}, false},
		{"no user", &Session{Token: "t"}, false},
		{"no expiry", &Session{UserID: "u1", Token: "t"}, true},
		{"not yet expired", &Session{UserID: "u1", Token: "t", ExpiresAt: now.Add(time.Minute)}, true},
		{"expired", &Session{UserID: "u1", Token: "t", ExpiresAt: now.Add(-time.Minute)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.AuthenticatedAt(now); got != tt.want {
				t.Errorf("AuthenticatedAt() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestSession_Has(t *testing.T) {
	admin := &Session{IsAdmin: true, Role: RoleAdmin}
	center := &Session{IsCenterAdmin: true, Role: RoleCenterAdmin}
	client := &Session{Role: RoleClient}
	freelancer := &Session{Role: RoleFreelancer}

	tests := []struct {
		name string
		s    *Session
		cap  Capability
		want bool
	}{
		{"no requirement", freelancer, "", true},
		{"admin has admin", admin, CapAdmin, true},
		{"center admin lacks admin", center, CapAdmin, false},
		{"center admin has console", center, CapConsole, true},
		{"client has console", client, CapConsole, true},
		{"freelancer lacks console", freelancer, CapConsole, false},
		{"unknown capability", admin, Capability("billing"), false},
		{"nil session", nil, CapConsole, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Has(tt.cap); got != tt.want {
				t.Errorf("Has(%q) = %v; want %v", tt.cap, got, tt.want)
			}
		})
	}
}

func TestSession_EffectiveRole(t *testing.T) {
	if got := (&Session{IsAdmin: true, Role: RoleClient}).EffectiveRole(); got != RoleAdmin {
		t.Errorf("admin flag: EffectiveRole() = %q; want %q", got, RoleAdmin)
	}
	if got := (&Session{IsCenterAdmin: true, Role: RoleClient}).EffectiveRole(); got != RoleCenterAdmin {
		t.Errorf("center flag: EffectiveRole() = %q; want %q", got, RoleCenterAdmin)
	}
	if got := (&Session{Role: RoleClient}).EffectiveRole(); got != RoleClient {
		t.Errorf("role string: EffectiveRole() = %q; want %q", got, RoleClient)
	}
}
