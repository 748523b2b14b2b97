package hyveapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// LoginResult is the payload of a successful login.
type LoginResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Login exchanges credentials for a user and bearer token. A 401 comes back
// as a validation error and does not touch any session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := c.Post(ctx, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	res, err := DecodeItem[LoginResult](body)
	if err != nil {
		return nil, err
	}
	if res.Token == "" || res.User.ID == "" {
		return nil, malformed(errors.New("login response without token or user"))
	}
	return res, nil
}

// CompleteOnboarding marks the signed-in user's onboarding as done and returns
// the updated user.
func (c *Client) CompleteOnboarding(ctx context.Context) (*domain.User, error) {
	return Send[domain.User](ctx, c, http.MethodPatch, "/auth/me/onboarding", map[string]bool{"onboardingComplete": true})
}

// Ping checks that the API answers at all. Any HTTP response below 500
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return err
	}
	req.Header.Del("Authorization")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		var b errorBody
		_ = json.NewDecoder(resp.Body).Decode(&b)
		return domain.NewAppError(domain.CodeUnavailable, "the HYVE API is unhealthy", fmt.Errorf("status %d %s", resp.StatusCode, b.text()))
	}
	return nil
}
