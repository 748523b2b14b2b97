package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func setupRateLimitRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func loginFrom(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":1234"
	req.Header.Set("Accept", "application/json")
	return req
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{RPS: 1, Burst: 2})
	rl.now = func() time.Time { return now }
	r := setupRateLimitRouter(rl)

	for i := range 2 {
		if w := serve(r, loginFrom("10.0.0.1")); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
	w := serve(r, loginFrom("10.0.0.1"))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "2" {
		t.Errorf("Retry-After = %q, want 2", w.Header().Get("Retry-After"))
	}

	if w := serve(r, loginFrom("10.0.0.2")); w.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", w.Code)
	}

	now = now.Add(time.Second)
	if w := serve(r, loginFrom("10.0.0.1")); w.Code != http.StatusOK {
		t.Errorf("after refill: status = %d, want 200", w.Code)
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{RPS: 1, Burst: 1, IdleTTL: time.Minute})
	rl.now = func() time.Time { return now }
	r := setupRateLimitRouter(rl)

	serve(r, loginFrom("10.0.0.1"))
	serve(r, loginFrom("10.0.0.2"))
	if rl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rl.Len())
	}

	now = now.Add(2 * time.Minute)
	serve(r, loginFrom("10.0.0.3"))
	if rl.Len() != 1 {
		t.Errorf("Len() after sweep = %d, want 1", rl.Len())
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	if rl.cfg.RPS != 1 || rl.cfg.Burst != 5 || rl.cfg.IdleTTL != 10*time.Minute {
		t.Errorf("cfg = %+v", rl.cfg)
	}
}
