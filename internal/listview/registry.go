package listview

import (
	"sync"
	"time"
)

// DefaultIdleTTL is how long a session's lists survive without a lookup.
const DefaultIdleTTL = 12 * time.Hour

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIdleTTL drops the lists of sessions not looked up for d. Sessions that
// expire are never torn down explicitly, so d should not be shorter than the
// session lifetime.
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idle = d
		}
	}
}

type sessionLists struct {
	byName   map[string]any
	lastSeen time.Time
}

// Registry keeps one list controller per session and list name.
type Registry struct {
	idle time.Duration
	now  func() time.Time

	mu        sync.Mutex
	lists     map[string]*sessionLists
	lastSweep time.Time
}

// NewRegistry creates an empty Registry. Idle sessions are swept lazily on
// Lookup.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{idle: DefaultIdleTTL, now: time.Now, lists: map[string]*sessionLists{}}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSweep = r.now()
	return r
}

// Lookup returns the controller registered for (sessionID, name), creating
// it with build on first use.
func Lookup[T any](r *Registry, sessionID, name string, build func() *Controller[T]) *Controller[T] {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) >= r.idle {
		r.sweepLocked(now)
	}
	s, ok := r.lists[sessionID]
	if !ok {
		s = &sessionLists{byName: map[string]any{}}
		r.lists[sessionID] = s
	}
	s.lastSeen = now
	if c, ok := s.byName[name].(*Controller[T]); ok {
		return c
	}
	c := build()
	s.byName[name] = c
	return c
}

// Drop forgets every list of sessionID. It is registered as a session
// teardown hook.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lists, sessionID)
}

// Sweep drops sessions idle for longer than the idle TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(now)
}

func (r *Registry) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range r.lists {
		if now.Sub(s.lastSeen) >= r.idle {
			delete(r.lists, id)
			removed++
		}
	}
	r.lastSweep = now
	return removed
}

// Len returns the number of sessions holding lists.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists)
}
