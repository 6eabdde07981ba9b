package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/joestump/experiment40/internal/accounts"
	"github.com/joestump/experiment40/internal/auth"
	"github.com/joestump/experiment40/internal/authflow"
	"github.com/joestump/experiment40/internal/i18n"
	"github.com/joestump/experiment40/internal/logger"
)

// DashboardPage is the template data for the dashboard view.
type DashboardPage struct {
	BasePage
	User        *accounts.User
	Unavailable bool
}

// DashboardHandler serves the page visitors land on after signing in.
type DashboardHandler struct {
	site     Site
	accounts *accounts.Client
	visitors *auth.Middleware
}

func NewDashboardHandler(site Site, ac *accounts.Client, mw *auth.Middleware) *DashboardHandler {
	return &DashboardHandler{site: site, accounts: ac, visitors: mw}
}

// Show serves GET /dashboard. The current user comes from the session cache,
// loaded if missing or stale; a signed-out visitor is sent to /auth.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := auth.VisitorFromContext(ctx)
	remote := h.accounts.Session(h.visitors.Jar(r), i18n.FromContext(ctx).Lang())

	data := DashboardPage{BasePage: h.site.newBasePage(r)}
	user, err := v.Cache.Ensure(ctx, authflow.MeKey, remote.CurrentUser)
	if err != nil {
		logger.FromContext(ctx).Warn("load current user", zap.Error(err))
		data.Unavailable = true
		render(w, http.StatusBadGateway, "dashboard.html", data)
		return
	}
	if user == nil {
		http.Redirect(w, r, "/auth", http.StatusFound)
		return
	}
	data.User = user
	render(w, http.StatusOK, "dashboard.html", data)
}
