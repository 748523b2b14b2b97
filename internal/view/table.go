// Package view holds the presentation components of the console: the data
// table, the dialog and the bulk upload parser. Components are view models
// consumed by the templates under web/templates/partials; they never call
// services.
package view

import (
	"html/template"
	"net/url"
	"strconv"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/listview"
	"github.com/simp-lee/hyve-admin/internal/pkg"
)

// Action is a row button.
type Action struct {
	Label string
	// Href is fetched with Method by htmx.
	Href    string
	Method  string
	Confirm bool
	Danger  bool
}

// Header is one column header.
type Header struct {
	Key       string
	Label     string
	Sortable  bool
	Active    bool
	Direction domain.SortDirection
	Href      string
}

// Row is one rendered table row.
type Row struct {
	ID      string
	Cells   []template.HTML
	Actions []Action
}

// FilterControl is a filter input above the table.
type FilterControl struct {
	Key     string
	Label   string
	Kind    listview.FilterKind
	Value   string
	Choices []listview.Choice
}

// Table is the view model of a data table.
type Table struct {
	// ID is the DOM id swapped by htmx on every list change.
	ID           string
	Base         string
	Headers      []Header
	Rows         []Row
	// Placeholders holds one entry per skeleton row shown while htmx
	// fetches the next table: the page size in flight.
	Placeholders []int
	Columns      int
	Empty        string
	Error        string
	Retry        string
	Searchable   bool
	Search       string
	Filters      []FilterControl
	PageSizes    []int
	PageSize     int
	Query        url.Values
	Pagination   Pagination
}

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// TableOptions describes how rows of T render.
type TableOptions[T any] struct {
	ID      string
	Base    string
	RowID   func(T) string
	Actions func(T) []Action
}

// NewTable builds a table from a list snapshot.
func NewTable[T any](ctl *listview.Controller[T], snap listview.Snapshot[T], opts TableOptions[T]) Table {
	o := ctl.Options()
	q := snap.Query

	t := Table{
		ID:         opts.ID,
		Base:       opts.Base,
		Columns:    len(ctl.Columns()),
		Empty:      o.EmptyText,
		Searchable: o.Searchable,
		Search:     q.Search,
		PageSizes:  o.PageSizes,
		PageSize:   q.PageSize,
		Query:      pkg.EncodeListQuery(q),
	}
	if opts.Actions != nil {
		t.Columns++
	}

	for _, col := range ctl.Columns() {
		h := Header{Key: col.Key, Label: col.Header, Sortable: col.Sortable}
		if col.Sortable {
			h.Active = q.SortKey == col.Key
			next := domain.SortAsc
			if h.Active {
				h.Direction = q.SortDirection
				if q.SortDirection == domain.SortAsc {
					next = domain.SortDesc
				}
			}
			sq := q.Clone()
			sq.SortKey, sq.SortDirection = col.Key, next
			h.Href = href(opts.Base, sq)
		}
		t.Headers = append(t.Headers, h)
	}

	for _, f := range o.Filters {
		t.Filters = append(t.Filters, FilterControl{
			Key: f.Key, Label: f.Label, Kind: f.Kind, Choices: f.Choices, Value: q.Filters[f.Key],
		})
	}

	t.Placeholders = make([]int, q.PageSize)
	for _, item := range snap.Result.Items {
		r := Row{Cells: make([]template.HTML, 0, len(ctl.Columns()))}
		if opts.RowID != nil {
			r.ID = opts.RowID(item)
		}
		for _, col := range ctl.Columns() {
			r.Cells = append(r.Cells, col.Cell(item))
		}
		if opts.Actions != nil {
			r.Actions = opts.Actions(item)
		}
		t.Rows = append(t.Rows, r)
	}

	if snap.Err != nil {
		t.Error = domain.UserMessage(snap.Err, "Could not load the list. Check your connection and retry.")
		t.Retry = href(opts.Base, q)
	}
	t.Pagination = NewPagination(opts.Base, q, snap.Result.Normalized())
	return t
}

func href(base string, q domain.ListQuery) string {
	v := pkg.EncodeListQuery(q)
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}

// PageSizeHref links to the first page with n rows per page.
func (t Table) PageSizeHref(n int) string {
	v := url.Values{}
	for k, vals := range t.Query {
		v[k] = vals
	}
	v.Set(pkg.ParamPageSize, strconv.Itoa(n))
	v.Set(pkg.ParamPage, "1")
	return t.Base + "?" + v.Encode()
}
