package view

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var richPolicy = bluemonday.UGCPolicy()

// RichText sanitizes user supplied markup (bios, descriptions) for display.
func RichText(s string) template.HTML {
	return template.HTML(richPolicy.Sanitize(s))
}

// PlainText strips all markup from s.
func PlainText(s string) string {
	return bluemonday.StrictPolicy().Sanitize(s)
}
