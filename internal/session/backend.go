package session

import (
	"context"
	"time"
)

// Backend is the durable key-value storage behind a Store.
type Backend interface {
	// Init prepares the storage (schema, connectivity).
	Init(ctx context.Context) error
	// Get returns the value stored under key. ok is false when the key is
	// absent or expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key until expiresAt.
	Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
