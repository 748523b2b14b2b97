// Package viewtest provides stub templates for testing page handlers without
// the real web/templates tree.
package viewtest

import (
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
)

const shared = `
{{define "fragments/table.html"}}table:rows={{len .Table.Rows}}|page={{.Table.Pagination.Current}}/{{.Table.Pagination.Total}}{{if .Table.Error}}|error={{.Table.Error}}{{end}}{{end}}
{{define "fragments/dialog.html"}}{{template "stub-dialog" .Dialog}}{{end}}
{{define "fragments/confirm.html"}}confirm:{{.Confirm.Message}}|{{.Confirm.Method}} {{.Confirm.Action}}{{end}}
{{define "fragments/bulk.html"}}{{template "stub-bulk" .Bulk}}{{end}}
{{define "shared/modal.html"}}modal:{{with .Dialog}}{{template "stub-dialog" .}}{{end}}{{with .Confirm}}confirm:{{.Message}}{{end}}{{with .Bulk}}{{template "stub-bulk" .}}{{end}}{{end}}
{{define "stub-dialog"}}dialog:{{.Title}}|{{.Method}} {{.Action}}{{if .Error}}|error={{.Error}}{{end}}{{range .Fields}}{{if .Error}}|{{.Name}}={{.Error}}{{end}}{{end}}{{range .Fields}}|{{.Name}}:{{.Value}}{{end}}{{end}}
{{define "stub-bulk"}}bulk:{{if .Error}}error={{.Error}}{{end}}{{if .Done}}created={{.Created}}{{range .Failed}}|row{{.Row}}={{.Message}}{{end}}{{end}}{{end}}
{{define "errors/400.html"}}400:{{.Message}}{{end}}
{{define "errors/403.html"}}403{{end}}
{{define "errors/404.html"}}404:{{.Message}}{{end}}
{{define "errors/500.html"}}500:{{.Message}}{{end}}
`

// Templates returns the shared stubs plus a stub for each page name that
// prints the title and, when present, the table summary.
func Templates(pages ...string) *template.Template {
	var b strings.Builder
	b.WriteString(shared)
	for _, p := range pages {
		b.WriteString(`{{define "` + p + `"}}page:{{.Title}}{{with .Table}}|rows={{len .Rows}}|page={{.Pagination.Current}}/{{.Pagination.Total}}{{end}}{{end}}`)
	}
	return template.Must(template.New("").Parse(b.String()))
}

// Router returns a gin engine in test mode rendering the stubs.
func Router(pages ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(Templates(pages...))
	return r
}
