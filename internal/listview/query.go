package listview

import (
	"slices"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// QueryChange is a partial update of a ListQuery. Nil fields are left alone;
// a Filters entry with an empty value clears that filter.
type QueryChange struct {
	Page          *int
	PageSize      *int
	SortKey       *string
	SortDirection *domain.SortDirection
	Filters       map[string]string
	Search        *string
}

// ChangePage moves to page n.
func ChangePage(n int) QueryChange { return QueryChange{Page: &n} }

// ChangePageSize switches to n rows per page.
func ChangePageSize(n int) QueryChange { return QueryChange{PageSize: &n} }

// ChangeSort sorts by key in direction dir.
func ChangeSort(key string, dir domain.SortDirection) QueryChange {
	return QueryChange{SortKey: &key, SortDirection: &dir}
}

// ChangeFilter sets filter key to value.
func ChangeFilter(key, value string) QueryChange {
	return QueryChange{Filters: map[string]string{key: value}}
}

// ChangeSearch replaces the search text.
func ChangeSearch(text string) QueryChange { return QueryChange{Search: &text} }

// IsZero reports whether the change carries nothing.
func (ch QueryChange) IsZero() bool {
	return ch.Page == nil && ch.PageSize == nil && ch.SortKey == nil &&
		ch.SortDirection == nil && len(ch.Filters) == 0 && ch.Search == nil
}

// searchOnly reports whether the change touches nothing but the search text.
func (ch QueryChange) searchOnly() bool {
	return ch.Search != nil && ch.Page == nil && ch.PageSize == nil &&
		ch.SortKey == nil && ch.SortDirection == nil && len(ch.Filters) == 0
}

// merge applies ch to q. Any effective change other than the page number
// resets the page to 1.
func merge(q domain.ListQuery, ch QueryChange) domain.ListQuery {
	out := q.Clone()
	reset := false

	if ch.PageSize != nil && *ch.PageSize != q.PageSize {
		out.PageSize = *ch.PageSize
		reset = true
	}
	if ch.SortKey != nil && *ch.SortKey != q.SortKey {
		out.SortKey = *ch.SortKey
		reset = true
	}
	if ch.SortDirection != nil && *ch.SortDirection != q.SortDirection {
		out.SortDirection = *ch.SortDirection
		reset = true
	}
	for k, v := range ch.Filters {
		if q.Filters[k] == v {
			continue
		}
		if v == "" {
			delete(out.Filters, k)
		} else {
			out.Filters[k] = v
		}
		reset = true
	}
	if ch.Search != nil && *ch.Search != q.Search {
		out.Search = *ch.Search
		reset = true
	}

	switch {
	case reset:
		out.Page = 1
	case ch.Page != nil:
		out.Page = *ch.Page
	}
	if out.Page < 1 {
		out.Page = 1
	}
	return out
}

// diff returns the change that turns from into to.
func diff(from, to domain.ListQuery) QueryChange {
	var ch QueryChange
	if to.Page != from.Page {
		ch.Page = &to.Page
	}
	if to.PageSize != from.PageSize {
		ch.PageSize = &to.PageSize
	}
	if to.SortKey != from.SortKey {
		ch.SortKey = &to.SortKey
	}
	if to.SortDirection != from.SortDirection {
		ch.SortDirection = &to.SortDirection
	}
	for k, v := range to.Filters {
		if from.Filters[k] != v {
			if ch.Filters == nil {
				ch.Filters = map[string]string{}
			}
			ch.Filters[k] = v
		}
	}
	for k, v := range from.Filters {
		if _, ok := to.Filters[k]; !ok && v != "" {
			if ch.Filters == nil {
				ch.Filters = map[string]string{}
			}
			ch.Filters[k] = ""
		}
	}
	if to.Search != from.Search {
		ch.Search = &to.Search
	}
	return ch
}

// sanitize replaces values the list does not offer with defaults.
func (o Options) sanitize(q domain.ListQuery, sortable []string) domain.ListQuery {
	if !slices.Contains(o.PageSizes, q.PageSize) {
		q.PageSize = o.DefaultPageSize
	}
	if q.SortKey != "" && !slices.Contains(sortable, q.SortKey) {
		q.SortKey = ""
	}
	if q.SortKey == "" {
		q.SortKey = o.DefaultSort
		q.SortDirection = o.DefaultDirection
	}
	if q.SortDirection != domain.SortAsc {
		q.SortDirection = domain.SortDesc
	}

	filters := map[string]string{}
	for _, f := range o.Filters {
		if v := q.Filters[f.Key]; v != "" && f.accepts(v) {
			filters[f.Key] = v
		}
	}
	q.Filters = filters
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}
