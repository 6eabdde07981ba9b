// Package handler is the HTTP surface: pages, form submissions, the language
// switcher, metrics and static assets.
package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joestump/experiment40/internal/accounts"
	"github.com/joestump/experiment40/internal/auth"
	"github.com/joestump/experiment40/internal/i18n"
	"github.com/joestump/experiment40/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Site           Site
	SessionManager *scs.SessionManager
	AuthMiddleware *auth.Middleware
	Accounts       *accounts.Client
	Bundle         *i18n.Bundle
	Clock          clockwork.Clock // nil means the real clock
	Logger         *zap.Logger
	SecureCookies  bool
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	// Static assets (embedded). fs.Sub so the file server sees css/app.css
	// directly, not static/css/app.css.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))
	r.Handle("/metrics", promhttp.Handler())

	landing := NewLandingHandler(deps.Site)
	authH := NewAuthHandler(deps.Site, deps.Accounts, deps.AuthMiddleware, deps.Clock)
	dashboard := NewDashboardHandler(deps.Site, deps.Accounts, deps.AuthMiddleware)
	locale := NewLocaleHandler(deps.SecureCookies)

	// Everything a browser visitor sees runs with a session, a visitor and
	// a language.
	r.Group(func(r chi.Router) {
		r.Use(deps.SessionManager.LoadAndSave)
		r.Use(deps.AuthMiddleware.Visitor)
		r.Use(withLocale(deps.Bundle))

		r.Get("/", landing.Index)
		r.Get("/auth", authH.Show)
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/register", authH.Register)
		r.Post("/auth/logout", authH.Logout)
		r.Get("/dashboard", dashboard.Show)
		r.Post("/locale", locale.Set)

		r.NotFound(landing.NotFound)
	})

	return r
}
