package handler

import (
	"net/http"

	"github.com/joestump/experiment40/internal/diagnostics"
	"github.com/joestump/experiment40/internal/i18n"
)

// Site is the per-process part of every page.
type Site struct {
	Name string
	Mode diagnostics.Mode
}

func (s Site) newBasePage(r *http.Request) BasePage {
	p := i18n.FromContext(r.Context())
	nav := make([]NavItem, 0, len(publicNav))
	for _, n := range publicNav {
		nav = append(nav, NavItem{Href: n.href, Label: p.T(n.key), Active: r.URL.Path == n.href})
	}
	return BasePage{
		AppName: s.Name,
		Mode:    s.Mode,
		Lang:    p.Lang(),
		Locales: i18n.Locales(),
		Path:    r.URL.RequestURI(),
		Nav:     nav,
		printer: p,
	}
}
