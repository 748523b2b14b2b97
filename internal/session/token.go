package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims holds what the console reads from a HYVE bearer token. The
// signature is the API's concern; the console only needs the expiry and
// subject, so the token is parsed without verification.
type tokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

func parseToken(token string) (tokenClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return tokenClaims{}, false
	}
	var out tokenClaims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}
