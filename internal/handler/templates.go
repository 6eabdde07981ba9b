package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/joestump/experiment40/internal/diagnostics"
	"github.com/joestump/experiment40/internal/i18n"
	"github.com/joestump/experiment40/web"
)

// NavItem is one link of the public nav bar.
type NavItem struct {
	Href   string
	Label  string
	Active bool
}

var publicNav = []struct{ href, key string }{
	{"/", "nav.home"},
	{"/wiki", "nav.wiki"},
	{"/auth", "nav.play"},
}

// Toast is a transient notification rendered at the top of the page.
type Toast struct {
	Type    string // "success" or "error"
	Message string
}

// BasePage carries layout-level data available to every template.
type BasePage struct {
	AppName string
	Mode    diagnostics.Mode
	Lang    string
	Locales []i18n.Locale
	Path    string
	Nav     []NavItem
	Toasts  []Toast

	printer *i18n.Printer
}

// T translates key for the request's language.
func (p BasePage) T(key string, args ...any) string {
	if p.printer == nil {
		return key
	}
	return p.printer.T(key, args...)
}

// pageCache maps a page file name (e.g. "auth.html") to a compiled template
// set containing base.html + partials + that one page file. Each page gets
// its own set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	partials, err := fs.Glob(web.TemplateFS, "templates/partials/*.html")
	if err != nil {
		panic("glob partials: " + err.Error())
	}

	pageCache = make(map[string]*template.Template)
	err = fs.WalkDir(web.TemplateFS, "templates/pages", func(p string, d fs.DirEntry, e error) error {
		if e != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return e
		}

		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").ParseFS(web.TemplateFS, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		pageCache[filepath.Base(p)] = t
		return nil
	})
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

// isHTMX returns true when the request was sent by HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// render executes a full-page template (base layout + named page) with the
// given status. The page is rendered to a buffer first so a template error
// still produces a clean 500.
func render(w http.ResponseWriter, status int, tmpl string, data any) {
	t, ok := pageCache[tmpl]
	if !ok {
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderPart executes one named template of a page's set straight to w.
// Used while streaming, after the status line is already out.
func renderPart(w io.Writer, page, name string, data any) error {
	t, ok := pageCache[page]
	if !ok {
		return fmt.Errorf("template not found: %s", page)
	}
	return t.ExecuteTemplate(w, name, data)
}
