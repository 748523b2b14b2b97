package domain

import (
	"maps"
	"math"
)

// SortDirection is the order of a sorted list.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection returns the direction named by s, or SortDesc for
// anything that is not "asc".
func ParseSortDirection(s string) SortDirection {
	if SortDirection(s) == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// ListQuery holds pagination, sorting, filtering and search parameters for a
// remote collection. Page is 1-based.
type ListQuery struct {
	Page          int
	PageSize      int
	SortKey       string
	SortDirection SortDirection
	Filters       map[string]string
	Search        string
}

// Clone returns a copy of q that shares no map with it.
func (q ListQuery) Clone() ListQuery {
	out := q
	out.Filters = maps.Clone(q.Filters)
	if out.Filters == nil {
		out.Filters = map[string]string{}
	}
	return out
}

// Equal reports whether q and o describe the same request.
func (q ListQuery) Equal(o ListQuery) bool {
	return q.Page == o.Page && q.PageSize == o.PageSize && q.SortKey == o.SortKey &&
		q.SortDirection == o.SortDirection && q.Search == o.Search && filtersEqual(q.Filters, o.Filters)
}

func filtersEqual(a, b map[string]string) bool {
	count := func(m map[string]string) int {
		n := 0
		for _, v := range m {
			if v != "" {
				n++
			}
		}
		return n
	}
	if count(a) != count(b) {
		return false
	}
	for k, v := range a {
		if v != "" && b[k] != v {
			return false
		}
	}
	return true
}

// ListResult is one page of a remote collection. It is replaced wholesale on
// every fetch.
type ListResult[T any] struct {
	Items       []T `json:"items"`
	TotalCount  int `json:"total_count"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// NewListResult builds a ListResult for items fetched with q, computing the
// page count from total.
func NewListResult[T any](items []T, total int, q ListQuery) ListResult[T] {
	totalPages := 0
	if q.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.PageSize)))
	}
	if items == nil {
		items = []T{}
	}
	return ListResult[T]{
		Items:       items,
		TotalCount:  total,
		CurrentPage: q.Page,
		TotalPages:  totalPages,
	}
}

// Normalized returns r adjusted for display: an empty collection reads as page
// 1 of 1 and CurrentPage always lies in [1, TotalPages].
func (r ListResult[T]) Normalized() ListResult[T] {
	if r.Items == nil {
		r.Items = []T{}
	}
	if r.TotalPages < 1 {
		r.TotalPages = 1
	}
	if r.TotalCount == 0 {
		r.TotalPages = 1
		r.CurrentPage = 1
	}
	if r.CurrentPage < 1 {
		r.CurrentPage = 1
	}
	if r.CurrentPage > r.TotalPages {
		r.CurrentPage = r.TotalPages
	}
	return r
}

// HasPrev reports whether a previous page exists.
func (r ListResult[T]) HasPrev() bool { return r.CurrentPage > 1 }

// HasNext reports whether a next page exists.
func (r ListResult[T]) HasNext() bool { return r.CurrentPage < r.TotalPages }
