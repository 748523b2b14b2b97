package listview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

type row struct{ ID int }

var testColumns = []Column[row]{
	{Key: "id", Header: "ID", Sortable: true},
	{Key: "name", Header: "Name", Sortable: true},
	{Key: "note", Header: "Note"},
}

func testOptions() Options {
	return Options{
		Name:        "rows",
		PageSizes:   []int{10, 25},
		DefaultSort: "id",
		Filters: []Filter{
			{Key: "experienceLevel", Kind: FilterSelect, Choices: Choices(domain.ExperienceLevels...)},
			{Key: "from", Kind: FilterDate},
		},
		Searchable: true,
	}
}

// dataset answers like a list endpoint over total rows.
type dataset struct {
	mu    sync.Mutex
	total int
	calls []domain.ListQuery
	err   error
}

func (d *dataset) fetch(_ context.Context, q domain.ListQuery) (domain.ListResult[row], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, q.Clone())
	if d.err != nil {
		return domain.ListResult[row]{}, d.err
	}
	var items []row
	start := (q.Page - 1) * q.PageSize
	for i := start; i < start+q.PageSize && i < d.total; i++ {
		items = append(items, row{ID: i + 1})
	}
	return domain.NewListResult(items, d.total, q), nil
}

func (d *dataset) queries() []domain.ListQuery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.ListQuery(nil), d.calls...)
}

// gate is a fetch whose calls block until the test releases them.
type gate struct {
	started chan *pending
}

type pending struct {
	q       domain.ListQuery
	release chan domain.ListResult[row]
}

func newGate() *gate { return &gate{started: make(chan *pending, 8)} }

func (g *gate) fetch(_ context.Context, q domain.ListQuery) (domain.ListResult[row], error) {
	p := &pending{q: q.Clone(), release: make(chan domain.ListResult[row], 1)}
	g.started <- p
	return <-p.release, nil
}

func (g *gate) next(t *testing.T) *pending {
	t.Helper()
	select {
	case p := <-g.started:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not called")
	}
	return nil
}

func resultFor(q domain.ListQuery, id int) domain.ListResult[row] {
	return domain.NewListResult([]row{{ID: id}}, 100, q)
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	for _, order := range []string{"older first", "newer first"} {
		t.Run(order, func(t *testing.T) {
			g := newGate()
			var staleCount int
			var staleMu sync.Mutex
			opts := testOptions()
			opts.OnStale = func(string) {
				staleMu.Lock()
				staleCount++
				staleMu.Unlock()
			}
			c := New(testColumns, g.fetch, opts)

			var wg sync.WaitGroup
			outcomes := make([]Outcome[row], 2)
			wg.Add(1)
			go func() {
				defer wg.Done()
				outcomes[0] = c.Change(context.Background(), ChangePage(2))
			}()
			first := g.next(t)

			wg.Add(1)
			go func() {
				defer wg.Done()
				outcomes[1] = c.Change(context.Background(), ChangePage(3))
			}()
			second := g.next(t)

			if order == "older first" {
				first.release <- resultFor(first.q, 2)
				second.release <- resultFor(second.q, 3)
			} else {
				second.release <- resultFor(second.q, 3)
				first.release <- resultFor(first.q, 2)
			}
			wg.Wait()

			if !outcomes[0].Stale {
				t.Error("first outcome should be stale")
			}
			if outcomes[1].Stale {
				t.Error("second outcome should not be stale")
			}
			snap := c.Snapshot()
			if snap.State != Loaded {
				t.Errorf("State = %v, want %v", snap.State, Loaded)
			}
			if got := snap.Result.Items[0].ID; got != 3 {
				t.Errorf("displayed item = %d, want 3", got)
			}
			if snap.Query.Page != 3 {
				t.Errorf("Query.Page = %d, want 3", snap.Query.Page)
			}
			staleMu.Lock()
			defer staleMu.Unlock()
			if staleCount != 1 {
				t.Errorf("OnStale called %d times, want 1", staleCount)
			}
		})
	}
}

func TestController_EmptyResultReadsAsPageOneOfOne(t *testing.T) {
	d := &dataset{total: 0}
	c := New(testColumns, d.fetch, testOptions())

	c.Change(context.Background(), ChangePage(3))
	snap := c.Snapshot()

	if snap.Query.Page != 1 {
		t.Errorf("Query.Page = %d, want 1", snap.Query.Page)
	}
	if snap.Result.CurrentPage != 1 || snap.Result.TotalPages != 1 {
		t.Errorf("page %d of %d, want 1 of 1", snap.Result.CurrentPage, snap.Result.TotalPages)
	}
	if len(snap.Result.Items) != 0 {
		t.Errorf("Items = %v, want empty", snap.Result.Items)
	}
}

func TestController_ClampsPagePastTheEnd(t *testing.T) {
	d := &dataset{total: 25}
	c := New(testColumns, d.fetch, testOptions())

	out := c.Change(context.Background(), ChangePage(5))

	calls := d.queries()
	if len(calls) != 2 {
		t.Fatalf("fetch calls = %d, want 2", len(calls))
	}
	if calls[1].Page != 3 {
		t.Errorf("refetch page = %d, want 3", calls[1].Page)
	}
	if out.Snapshot.Query.Page != 3 || out.Snapshot.Result.CurrentPage != 3 {
		t.Errorf("page = %d/%d, want 3", out.Snapshot.Query.Page, out.Snapshot.Result.CurrentPage)
	}
	if got := len(out.Snapshot.Result.Items); got != 5 {
		t.Errorf("items = %d, want 5", got)
	}
}

func TestController_FilterChangeResetsPage(t *testing.T) {
	d := &dataset{total: 100}
	c := New(testColumns, d.fetch, testOptions())
	ctx := context.Background()

	c.Change(ctx, ChangePage(3))
	c.Change(ctx, ChangeFilter("experienceLevel", domain.ExperienceExpert))

	calls := d.queries()
	last := calls[len(calls)-1]
	if last.Page != 1 {
		t.Errorf("page = %d, want 1", last.Page)
	}
	if last.Filters["experienceLevel"] != domain.ExperienceExpert {
		t.Errorf("filter = %q, want %q", last.Filters["experienceLevel"], domain.ExperienceExpert)
	}
	if len(calls) != 2 {
		t.Errorf("fetch calls = %d, want 2", len(calls))
	}
}

func TestController_UnknownFilterDropped(t *testing.T) {
	d := &dataset{total: 10}
	c := New(testColumns, d.fetch, testOptions())

	c.Change(context.Background(), QueryChange{Filters: map[string]string{"role": "x", "experienceLevel": "GURU"}})

	q := d.queries()[0]
	if len(q.Filters) != 0 {
		t.Errorf("Filters = %v, want none", q.Filters)
	}
}

func TestController_FailureKeepsPreviousResult(t *testing.T) {
	d := &dataset{total: 30}
	c := New(testColumns, d.fetch, testOptions())
	ctx := context.Background()

	c.Change(ctx, ChangePage(2))
	before := c.Snapshot().Result

	d.err = errors.New("connection reset")
	out := c.Change(ctx, ChangePage(3))

	if out.Snapshot.State != Errored {
		t.Errorf("State = %v, want %v", out.Snapshot.State, Errored)
	}
	if out.Snapshot.Err == nil {
		t.Error("Err should be set")
	}
	if out.Snapshot.Result.CurrentPage != before.CurrentPage || out.Snapshot.Result.Items[0] != before.Items[0] {
		t.Errorf("Result changed on failure: %+v, want %+v", out.Snapshot.Result, before)
	}

	d.err = nil
	out = c.Retry(ctx)
	if out.Snapshot.State != Loaded || out.Snapshot.Err != nil {
		t.Errorf("after retry State = %v, Err = %v", out.Snapshot.State, out.Snapshot.Err)
	}
	if out.Snapshot.Result.CurrentPage != 3 {
		t.Errorf("after retry page = %d, want 3", out.Snapshot.Result.CurrentPage)
	}
}

func TestController_PlaceholdersWhileLoading(t *testing.T) {
	g := newGate()
	c := New(testColumns, g.fetch, testOptions())

	if s := c.Snapshot(); s.State != Idle || s.Placeholders != 0 {
		t.Errorf("initial = %v/%d, want idle/0", s.State, s.Placeholders)
	}

	done := make(chan Outcome[row])
	go func() { done <- c.Change(context.Background(), ChangePageSize(25)) }()
	p := g.next(t)

	s := c.Snapshot()
	if s.State != Loading {
		t.Errorf("State = %v, want %v", s.State, Loading)
	}
	if s.Placeholders != 25 {
		t.Errorf("Placeholders = %d, want 25", s.Placeholders)
	}

	p.release <- resultFor(p.q, 1)
	out := <-done
	if out.Snapshot.Placeholders != 0 {
		t.Errorf("Placeholders after load = %d, want 0", out.Snapshot.Placeholders)
	}
}

// fakeTimers hands out debounce timers the test fires by hand.
type fakeTimers struct {
	registered chan chan time.Time
}

func (f *fakeTimers) after(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	f.registered <- ch
	return ch
}

func TestController_SearchDebounce(t *testing.T) {
	d := &dataset{total: 5}
	opts := testOptions()
	opts.SearchDebounce = 300 * time.Millisecond
	c := New(testColumns, d.fetch, opts)
	timers := &fakeTimers{registered: make(chan chan time.Time, 8)}
	c.after = timers.after

	var wg sync.WaitGroup
	var mu sync.Mutex
	var outcomes []Outcome[row]
	var pending []chan time.Time
	for _, text := range []string{"a", "ad", "ada"} {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			out := c.Search(context.Background(), text)
			mu.Lock()
			outcomes = append(outcomes, out)
			mu.Unlock()
		}(text)
		pending = append(pending, <-timers.registered)
	}
	for _, ch := range pending {
		ch <- time.Now()
	}
	wg.Wait()

	calls := d.queries()
	if len(calls) != 1 {
		t.Fatalf("fetch calls = %d, want 1", len(calls))
	}
	if calls[0].Search != "ada" {
		t.Errorf("Search = %q, want %q", calls[0].Search, "ada")
	}
	stale := 0
	for _, o := range outcomes {
		if o.Stale {
			stale++
		}
	}
	if stale != 2 {
		t.Errorf("stale outcomes = %d, want 2", stale)
	}

	c.Search(context.Background(), "")
	calls = d.queries()
	if len(calls) != 2 {
		t.Fatalf("fetch calls after clear = %d, want 2", len(calls))
	}
	if calls[1].Search != "" {
		t.Errorf("Search = %q, want empty", calls[1].Search)
	}
	select {
	case <-timers.registered:
		t.Error("clearing the search should not wait for the debounce")
	default:
	}
}

func TestController_ChangeSupersedesPendingSearch(t *testing.T) {
	d := &dataset{total: 50}
	opts := testOptions()
	opts.SearchDebounce = 300 * time.Millisecond
	c := New(testColumns, d.fetch, opts)
	timers := &fakeTimers{registered: make(chan chan time.Time, 1)}
	c.after = timers.after

	done := make(chan Outcome[row], 1)
	go func() { done <- c.Search(context.Background(), "ab") }()
	fire := <-timers.registered

	page := c.Change(context.Background(), ChangePage(2))
	if page.Stale || page.Snapshot.Query.Page != 2 {
		t.Fatalf("page change = %+v, want page 2 applied", page.Snapshot.Query)
	}

	fire <- time.Now()
	if out := <-done; !out.Stale {
		t.Error("search outcome should be stale after a newer change")
	}
	calls := d.queries()
	if len(calls) != 1 || calls[0].Page != 2 || calls[0].Search != "" {
		t.Errorf("fetches = %+v, want only the page 2 request", calls)
	}
	if got := c.Snapshot().Query.Page; got != 2 {
		t.Errorf("Page = %d, want 2", got)
	}
}

func TestController_SearchCancelledContext(t *testing.T) {
	d := &dataset{total: 5}
	opts := testOptions()
	opts.SearchDebounce = time.Hour
	c := New(testColumns, d.fetch, opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := c.Search(ctx, "x")

	if !out.Stale {
		t.Error("outcome should be stale when the request is gone")
	}
	if n := len(d.queries()); n != 0 {
		t.Errorf("fetch calls = %d, want 0", n)
	}
}

func TestController_Submit(t *testing.T) {
	d := &dataset{total: 100}
	c := New(testColumns, d.fetch, testOptions())
	ctx := context.Background()

	// A sort change from the request resets the page.
	out := c.Submit(ctx, domain.ListQuery{Page: 4, PageSize: 10, SortKey: "name", SortDirection: domain.SortAsc})
	if q := out.Snapshot.Query; q.Page != 1 || q.SortKey != "name" || q.SortDirection != domain.SortAsc {
		t.Errorf("Query = %+v, want page 1 sorted by name asc", q)
	}

	out = c.Submit(ctx, domain.ListQuery{Page: 4, PageSize: 10, SortKey: "name", SortDirection: domain.SortAsc})
	if out.Snapshot.Query.Page != 4 {
		t.Errorf("Page = %d, want 4", out.Snapshot.Query.Page)
	}

	// Same query again is a refetch.
	c.Submit(ctx, out.Snapshot.Query)
	calls := d.queries()
	if len(calls) != 3 || !calls[2].Equal(calls[1]) {
		t.Errorf("calls = %+v, want identical refetch", calls)
	}

	// Unknown sort keys and page sizes fall back to defaults.
	out = c.Submit(ctx, domain.ListQuery{Page: 2, PageSize: 999, SortKey: "note"})
	q := out.Snapshot.Query
	if q.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", q.PageSize)
	}
	if q.SortKey != "id" || q.SortDirection != domain.SortDesc {
		t.Errorf("sort = %s %s, want id desc", q.SortKey, q.SortDirection)
	}
	if q.Page != 1 {
		t.Errorf("Page = %d, want 1 after sort change", q.Page)
	}

	// A search-only change goes through Search.
	out = c.Submit(ctx, domain.ListQuery{Page: 1, PageSize: 10, SortKey: "id", Search: "ada"})
	if out.Snapshot.Query.Search != "ada" {
		t.Errorf("Search = %q, want ada", out.Snapshot.Query.Search)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{Idle: "idle", Loading: "loading", Loaded: "loaded", Errored: "errored"}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestZeroBasedTranslation(t *testing.T) {
	tests := []struct{ page, index int }{{1, 0}, {2, 1}, {10, 9}}
	for _, tt := range tests {
		if got := ToZeroBased(tt.page); got != tt.index {
			t.Errorf("ToZeroBased(%d) = %d, want %d", tt.page, got, tt.index)
		}
		if got := FromZeroBased(tt.index); got != tt.page {
			t.Errorf("FromZeroBased(%d) = %d, want %d", tt.index, got, tt.page)
		}
	}
	if got := ToZeroBased(0); got != 0 {
		t.Errorf("ToZeroBased(0) = %d, want 0", got)
	}
	if got := FromZeroBased(-3); got != 1 {
		t.Errorf("FromZeroBased(-3) = %d, want 1", got)
	}
}
