package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	csrfFormField  = "_csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfContextKey = "CSRFToken"

	defaultCSRFCookie = "hyve_csrf"
)

// CSRFConfig configures CSRF protection of the console forms.
type CSRFConfig struct {
	Secret     string
	CookieName string
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// CSRF protects state-changing requests of the HTML console with a signed
// double-submit token: hex(nonce) + "." + base64url(HMAC-SHA256(nonce, secret)).
//
// Safe requests get a token cookie (readable by scripts so htmx can echo it)
// and the token in gin.Context under "CSRFToken" for templates. Unsafe
// requests must echo the cookie in the "_csrf_token" form field or the
// X-CSRF-Token header. The JSON API is not protected by this middleware.
func CSRF(cfg CSRFConfig) gin.HandlerFunc {
	secret := strings.TrimSpace(cfg.Secret)
	cookie := cfg.CookieName
	if cookie == "" {
		cookie = defaultCSRFCookie
	}
	if secret == "" {
		return func(c *gin.Context) {
			abortWith(c, http.StatusInternalServerError, "csrf secret is required")
		}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			token, err := c.Cookie(cookie)
			if err != nil || !validToken(token, secret) {
				token, err = generateToken(secret)
				if err != nil {
					abortWith(c, http.StatusInternalServerError, "failed to generate CSRF token")
					return
				}
				http.SetCookie(c.Writer, &http.Cookie{
					Name:     cookie,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteStrictMode,
				})
			}
			c.Set(csrfContextKey, token)
			c.Next()

		default:
			cookieToken, err := c.Cookie(cookie)
			if err != nil || cookieToken == "" {
				abortWith(c, http.StatusForbidden, "Your form expired. Reload the page and try again.")
				return
			}
			requestToken := c.GetHeader(csrfHeaderName)
			if requestToken == "" {
				requestToken = c.PostForm(csrfFormField)
			}
			if !validToken(cookieToken, secret) || !tokensMatch(cookieToken, requestToken) {
				abortWith(c, http.StatusForbidden, "Your form expired. Reload the page and try again.")
				return
			}
			c.Set(csrfContextKey, cookieToken)
			c.Next()
		}
	}
}

// GetCSRFToken returns the token stored by CSRF, or "".
func GetCSRFToken(c *gin.Context) string {
	if token, ok := c.Get(csrfContextKey); ok {
		if s, ok := token.(string); ok {
			return s
		}
	}
	return ""
}

func generateToken(secret string) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	nonceHex := hex.EncodeToString(nonce)
	return nonceHex + "." + signNonce(nonceHex, secret), nil
}

func signNonce(nonce, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(nonce))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// validToken checks the token format and its HMAC signature.
func validToken(token, secret string) bool {
	nonce, sig, ok := strings.Cut(token, ".")
	if !ok || nonce == "" || sig == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(signNonce(nonce, secret))) == 1
}

func tokensMatch(a, b string) bool {
	return b != "" && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
