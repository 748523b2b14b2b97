package listview

import (
	"html/template"
	"time"
)

// Column maps one field of T to a table column.
type Column[T any] struct {
	// Key is the sort key sent to the API.
	Key    string
	Header string
	// Sortable columns may be chosen as the sort key.
	Sortable bool
	// Value renders the cell as escaped text.
	Value func(T) string
	// Render, when set, renders the cell as trusted markup and wins over
	// Value.
	Render func(T) template.HTML
}

// Cell renders the column for item.
func (c Column[T]) Cell(item T) template.HTML {
	switch {
	case c.Render != nil:
		return c.Render(item)
	case c.Value != nil:
		return template.HTML(template.HTMLEscapeString(c.Value(item)))
	}
	return ""
}

// FilterKind is the input type of a filter.
type FilterKind string

const (
	FilterSelect FilterKind = "select"
	FilterDate   FilterKind = "date"
)

// Choice is one option of a select filter.
type Choice struct {
	Value string
	Label string
}

// Filter is a list filter offered above the table.
type Filter struct {
	Key     string
	Label   string
	Kind    FilterKind
	Choices []Choice
}

// accepts reports whether v is a valid value for f. The empty value always
// is and clears the filter.
func (f Filter) accepts(v string) bool {
	if v == "" {
		return true
	}
	switch f.Kind {
	case FilterSelect:
		for _, c := range f.Choices {
			if c.Value == v {
				return true
			}
		}
		return false
	case FilterDate:
		return isDate(v)
	}
	return true
}

func isDate(v string) bool {
	_, err := time.Parse(time.DateOnly, v)
	return err == nil
}

// Choices builds select choices whose labels equal their values.
func Choices(values ...string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Value: v, Label: v}
	}
	return out
}
