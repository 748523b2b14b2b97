package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/view"
)

// TemplateRenderer is the gin HTML renderer of the console.
//
// Every file under templates/layouts and templates/partials forms a shared
// base set. Each other file under templates/ is a page or fragment: it is
// parsed on a clone of the base set and looked up by its path relative to
// templates/, e.g. "freelancer/list.html" or "fragments/table.html". Pages
// invoke {{template "base" .}} and fill its blocks; fragments render alone
// for htmx swaps.
//
// In debug mode the tree is re-parsed on every render so edits show up
// without a restart.
type TemplateRenderer struct {
	fs      fs.FS
	funcMap template.FuncMap
	debug   bool
	pages   map[string]*template.Template
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer creates a TemplateRenderer over fsys, which must hold
// a templates/ directory. Outside debug mode the templates are parsed once
// here and a parse error fails construction.
func NewTemplateRenderer(fsys fs.FS, debug bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{fs: fsys, funcMap: templateFuncMap(), debug: debug}
	if debug {
		return r, nil
	}
	pages, err := r.parse()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.pages = pages
	return r, nil
}

// Instance implements render.HTMLRender.
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	if r.debug {
		pages, err := r.parse()
		if err != nil {
			return &HTMLInstance{Name: name, err: err}
		}
		return &HTMLInstance{Template: pages[name], Name: name, Data: data}
	}

	return &HTMLInstance{Template: r.pages[name], Name: name, Data: data}
}

func (r *TemplateRenderer) parse() (map[string]*template.Template, error) {
	base := template.New("").Funcs(r.funcMap)
	for _, pattern := range []string{"templates/layouts/*.html", "templates/partials/*.html"} {
		files, err := fs.Glob(r.fs, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, f := range files {
			if err := parseFile(base.New(f), r.fs, f); err != nil {
				return nil, err
			}
		}
	}

	files, err := r.pageFiles()
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}
	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", f, err)
		}
		name := strings.TrimPrefix(f, "templates/")
		if err := parseFile(clone.New(name), r.fs, f); err != nil {
			return nil, err
		}
		pages[name] = clone
	}
	return pages, nil
}

func parseFile(t *template.Template, fsys fs.FS, path string) error {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if _, err := t.Parse(string(content)); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// pageFiles lists the .html files under templates/ outside layouts/ and
// partials/.
func (r *TemplateRenderer) pageFiles() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fs, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		rel := strings.TrimPrefix(path, "templates/")
		if strings.HasPrefix(rel, "layouts/") || strings.HasPrefix(rel, "partials/") {
			return nil
		}
		pages = append(pages, path)
		return nil
	})
	return pages, err
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// json embeds v in a script or attribute (hx-vals, x-data).
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		// dict builds the argument map of a partial: dict "Table" .Table "Title" "x".
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, errors.New("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
		// navActive reports whether the nav entry for section covers path.
		"navActive": func(path, section string) bool {
			if section == "/" {
				return path == "/"
			}
			return path == section || strings.HasPrefix(path, section+"/")
		},
		"can": func(s *domain.Session, capability string) bool {
			return s.Has(domain.Capability(capability))
		},
		"richText": view.RichText,
	}
}

// HTMLInstance renders one template. It is returned by
// TemplateRenderer.Instance.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error // parse failure in debug mode
}

const htmlContentType = "text/html; charset=utf-8"

// Render implements render.Render.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	if h.err != nil {
		return h.err
	}
	if h.Template == nil {
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

// WriteContentType sets an HTML Content-Type unless one is set already.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{htmlContentType}
	}
}
