// Package listview implements the list screen contract shared by every
// resource index: one current query, one fetch per change, last request wins,
// debounced search, page reset on filter changes and page clamping.
package listview

import (
	"context"
	"sync"
	"time"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// State is the lifecycle state of a list.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Errored
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	}
	return "idle"
}

// FetchFunc fetches one page of a collection.
type FetchFunc[T any] func(ctx context.Context, q domain.ListQuery) (domain.ListResult[T], error)

// Options configures a Controller.
type Options struct {
	// Name identifies the list in logs and metrics.
	Name             string
	PageSizes        []int
	DefaultPageSize  int
	DefaultSort      string
	DefaultDirection domain.SortDirection
	Filters          []Filter
	Searchable       bool
	SearchDebounce   time.Duration
	EmptyText        string
	// OnStale is called whenever a superseded response is discarded.
	OnStale func(name string)
}

func (o Options) withDefaults() Options {
	if len(o.PageSizes) == 0 {
		o.PageSizes = []int{10, 25, 50}
	}
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = o.PageSizes[0]
	}
	if o.DefaultDirection == "" {
		o.DefaultDirection = domain.SortDesc
	}
	if o.EmptyText == "" {
		o.EmptyText = "Nothing to show yet."
	}
	return o
}

// Snapshot is a consistent view of a list at one instant.
type Snapshot[T any] struct {
	State  State
	Query  domain.ListQuery
	Result domain.ListResult[T]
	Err    error
	// Placeholders is the number of skeleton rows to show while loading.
	Placeholders int
}

// Outcome is what a change produced. Stale is set when the change was
// superseded by a newer one before its result could be applied; the snapshot
// then reflects the newer state.
type Outcome[T any] struct {
	Stale    bool
	Snapshot Snapshot[T]
}

// Controller owns the query and last result of one list.
type Controller[T any] struct {
	columns []Column[T]
	fetch   FetchFunc[T]
	opts    Options

	// after is the debounce timer; tests replace it.
	after func(time.Duration) <-chan time.Time

	mu        sync.Mutex
	query     domain.ListQuery
	seq       uint64
	searchGen uint64
	state     State
	result    domain.ListResult[T]
	err       error
}

// New configures a list over fetch.
func New[T any](columns []Column[T], fetch FetchFunc[T], opts Options) *Controller[T] {
	opts = opts.withDefaults()
	c := &Controller[T]{
		columns: columns,
		fetch:   fetch,
		opts:    opts,
		after:   time.After,
	}
	c.query = opts.sanitize(domain.ListQuery{Page: 1}, c.sortable())
	c.result = domain.ListResult[T]{Items: []T{}, CurrentPage: 1, TotalPages: 1}
	return c
}

// Columns returns the configured columns.
func (c *Controller[T]) Columns() []Column[T] { return c.columns }

// Options returns the configured options.
func (c *Controller[T]) Options() Options { return c.opts }

// Snapshot returns the current state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Change merges ch into the current query and fetches once.
func (c *Controller[T]) Change(ctx context.Context, ch QueryChange) Outcome[T] {
	c.mu.Lock()
	q := c.opts.sanitize(merge(c.query, ch), c.sortable())
	seq := c.beginLocked(q)
	c.mu.Unlock()
	return c.run(ctx, seq, q)
}

// Retry refetches the current query.
func (c *Controller[T]) Retry(ctx context.Context) Outcome[T] {
	c.mu.Lock()
	q := c.query.Clone()
	seq := c.beginLocked(q)
	c.mu.Unlock()
	return c.run(ctx, seq, q)
}

// Search sets the search text after the debounce delay. A call superseded by
// a newer Search or any other change within the delay never fetches and
// reports Stale. An empty
// text fetches immediately.
func (c *Controller[T]) Search(ctx context.Context, text string) Outcome[T] {
	c.mu.Lock()
	c.searchGen++
	gen := c.searchGen
	delay := c.opts.SearchDebounce
	c.mu.Unlock()

	if text != "" && delay > 0 {
		select {
		case <-c.after(delay):
		case <-ctx.Done():
			return Outcome[T]{Stale: true, Snapshot: c.Snapshot()}
		}
		c.mu.Lock()
		superseded := gen != c.searchGen
		c.mu.Unlock()
		if superseded {
			return Outcome[T]{Stale: true, Snapshot: c.Snapshot()}
		}
	}
	return c.Change(ctx, ChangeSearch(text))
}

// Submit applies a complete query, typically parsed from a request. A change
// to the search text alone goes through the debounce; an identical query is
// refetched.
func (c *Controller[T]) Submit(ctx context.Context, q domain.ListQuery) Outcome[T] {
	c.mu.Lock()
	current := c.query.Clone()
	c.mu.Unlock()

	target := c.opts.sanitize(q.Clone(), c.sortable())
	ch := diff(current, target)
	switch {
	case ch.IsZero():
		return c.Retry(ctx)
	case ch.searchOnly():
		return c.Search(ctx, *ch.Search)
	}
	return c.Change(ctx, ch)
}

// beginLocked starts a request for q. It also supersedes any search still
// waiting out its debounce.
func (c *Controller[T]) beginLocked(q domain.ListQuery) uint64 {
	c.query = q
	c.seq++
	c.searchGen++
	c.state = Loading
	return c.seq
}

// run fetches q and applies the result if seq is still the latest request.
// A page past the end is clamped to the last page and fetched again.
func (c *Controller[T]) run(ctx context.Context, seq uint64, q domain.ListQuery) Outcome[T] {
	for attempt := 0; ; attempt++ {
		res, err := c.fetch(ctx, q)

		c.mu.Lock()
		if seq != c.seq {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			if c.opts.OnStale != nil {
				c.opts.OnStale(c.opts.Name)
			}
			return Outcome[T]{Stale: true, Snapshot: snap}
		}

		if err != nil {
			c.err = err
			c.state = Errored
			snap := c.snapshotLocked()
			c.mu.Unlock()
			return Outcome[T]{Snapshot: snap}
		}

		if attempt == 0 && res.TotalCount > 0 && res.TotalPages > 0 && q.Page > res.TotalPages {
			q = q.Clone()
			q.Page = res.TotalPages
			seq = c.beginLocked(q)
			c.mu.Unlock()
			continue
		}

		norm := res.Normalized()
		if res.TotalCount == 0 {
			c.query.Page = 1
		}
		c.result = norm
		c.err = nil
		c.state = Loaded
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return Outcome[T]{Snapshot: snap}
	}
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	snap := Snapshot[T]{
		State:  c.state,
		Query:  c.query.Clone(),
		Result: c.result,
		Err:    c.err,
	}
	if c.state == Loading {
		snap.Placeholders = c.query.PageSize
	}
	return snap
}

func (c *Controller[T]) sortable() []string {
	keys := make([]string, 0, len(c.columns))
	for _, col := range c.columns {
		if col.Sortable {
			keys = append(keys, col.Key)
		}
	}
	return keys
}
