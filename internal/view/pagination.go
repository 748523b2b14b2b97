package view

import (
	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/listview"
)

// pageWindow is the number of page links shown on each side of the current page.
const pageWindow = 2

// PageLink is one entry of the pager. Gap entries render as an ellipsis.
type PageLink struct {
	Number int
	Href   string
	Active bool
	Gap    bool
}

// Pagination is the pager under a table. Page numbers are 1-based; Index is
// the 0-based position some table widgets expect.
type Pagination struct {
	Current    int
	Index      int
	Total      int
	TotalCount int
	Prev       string
	Next       string
	Links      []PageLink
}

// NewPagination builds the pager for result r fetched with q.
func NewPagination[T any](base string, q domain.ListQuery, r domain.ListResult[T]) Pagination {
	r = r.Normalized()
	p := Pagination{
		Current:    r.CurrentPage,
		Index:      listview.ToZeroBased(r.CurrentPage),
		Total:      r.TotalPages,
		TotalCount: r.TotalCount,
	}

	link := func(n int) string {
		pq := q.Clone()
		pq.Page = n
		return href(base, pq)
	}
	if r.HasPrev() {
		p.Prev = link(r.CurrentPage - 1)
	}
	if r.HasNext() {
		p.Next = link(r.CurrentPage + 1)
	}

	last := 0
	for n := 1; n <= r.TotalPages; n++ {
		near := n >= r.CurrentPage-pageWindow && n <= r.CurrentPage+pageWindow
		if n != 1 && n != r.TotalPages && !near {
			continue
		}
		if last != 0 && n > last+1 {
			p.Links = append(p.Links, PageLink{Gap: true})
		}
		p.Links = append(p.Links, PageLink{Number: n, Href: link(n), Active: n == r.CurrentPage})
		last = n
	}
	return p
}
