package auth

import "github.com/simp-lee/hyve-admin/internal/domain"

// LoginRequest represents the input for console login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,max=128"`
	// Next is the page to return to after login.
	Next string `json:"-" form:"next"`
}

// SessionResponse is the public view of a console session.
type SessionResponse struct {
	UserID             string `json:"user_id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	IsAdmin            bool   `json:"is_admin"`
	OnboardingComplete bool   `json:"onboarding_complete"`
	ExpiresAt          int64  `json:"expires_at,omitempty"`
}

func sessionResponseFrom(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		UserID:             s.UserID,
		Email:              s.Email,
		Name:               s.Name,
		Role:               string(s.EffectiveRole()),
		IsAdmin:            s.IsAdmin,
		OnboardingComplete: s.OnboardingComplete,
	}
	if !s.ExpiresAt.IsZero() {
		resp.ExpiresAt = s.ExpiresAt.Unix()
	}
	return resp
}
