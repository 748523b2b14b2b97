package session

import (
	"context"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

type ctxKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session carried by ctx, or nil.
func FromContext(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(ctxKey{}).(*domain.Session)
	return sess
}

// IDFromContext returns the id of the session carried by ctx, or "".
func IDFromContext(ctx context.Context) string {
	if sess := FromContext(ctx); sess != nil {
		return sess.ID
	}
	return ""
}
