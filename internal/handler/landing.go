package handler

import "net/http"

// LandingHandler serves the public landing page.
type LandingHandler struct {
	site Site
}

func NewLandingHandler(site Site) *LandingHandler { return &LandingHandler{site: site} }

// Index serves GET /.
func (h *LandingHandler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "landing.html", h.site.newBasePage(r))
}

// NotFound renders the 404 page for unknown routes.
func (h *LandingHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusNotFound, "404.html", h.site.newBasePage(r))
}
