package view

import (
	"html/template"
	"net/http"
)

// Mode is the kind of dialog. It is one of Create, Edit or View.
type Mode interface {
	isMode()
}

// Create opens an empty, editable form.
type Create struct{}

// Edit opens the form of an existing record.
type Edit struct {
	ID string
}

// View shows an existing record read-only.
type View struct {
	ID string
}

func (Create) isMode() {}
func (Edit) isMode()   {}
func (View) isMode()   {}

// FieldType is the input type of a dialog field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldURL      FieldType = "url"
)

// Field is one input of a dialog.
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Value    string
	Options  []Option
	Required bool
	// Rich fields hold user supplied markup; in View mode they render
	// sanitized.
	Rich  bool
	Error string
}

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Checked reports whether a checkbox field is on.
func (f Field) Checked() bool {
	return f.Value == "true" || f.Value == "on" || f.Value == "1"
}

// Display returns the read-only rendering of the field.
func (f Field) Display() template.HTML {
	switch {
	case f.Type == FieldCheckbox:
		if f.Checked() {
			return "Yes"
		}
		return "No"
	case f.Rich:
		return RichText(f.Value)
	case f.Type == FieldSelect:
		for _, o := range f.Options {
			if o.Value == f.Value {
				return template.HTML(template.HTMLEscapeString(o.Label))
			}
		}
	}
	if f.Value == "" {
		return "-"
	}
	return template.HTML(template.HTMLEscapeString(f.Value))
}

// Dialog is the generic add / edit / view dialog.
type Dialog struct {
	Title  string
	Mode   Mode
	Base   string
	Fields []Field
	// Error is shown above the fields.
	Error string
	// Submit is the label of the submit button.
	Submit string
}

// NewDialog builds a dialog over the resource at base, e.g. "/freelancers".
func NewDialog(title, base string, mode Mode, fields []Field) Dialog {
	d := Dialog{Title: title, Mode: mode, Base: base, Fields: fields}
	switch mode.(type) {
	case Create:
		d.Submit = "Create"
	case Edit:
		d.Submit = "Save changes"
	}
	return d
}

// ReadOnly reports whether the dialog has no form.
func (d Dialog) ReadOnly() bool {
	_, ok := d.Mode.(View)
	return ok
}

// Method is the HTTP method the form submits with, or "" in View mode.
func (d Dialog) Method() string {
	switch d.Mode.(type) {
	case Create:
		return http.MethodPost
	case Edit:
		return http.MethodPut
	}
	return ""
}

// Action is the URL the form submits to, or "" in View mode.
func (d Dialog) Action() string {
	switch m := d.Mode.(type) {
	case Create:
		return d.Base
	case Edit:
		return d.Base + "/" + m.ID
	}
	return ""
}

// WithErrors returns a copy of d with per-field messages and a summary.
func (d Dialog) WithErrors(summary string, fields map[string]string) Dialog {
	d.Error = summary
	d.Fields = append([]Field(nil), d.Fields...)
	for i := range d.Fields {
		if msg, ok := fields[d.Fields[i].Name]; ok {
			d.Fields[i].Error = msg
		}
	}
	return d
}

// Confirm is the confirmation step before a destructive request.
type Confirm struct {
	Title   string
	Message string
	Action  string
	Method  string
	// Label of the confirming button.
	Label string
}
