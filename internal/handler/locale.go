package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/joestump/experiment40/internal/i18n"
)

// LocaleHandler handles the language switcher.
type LocaleHandler struct {
	secure bool
}

func NewLocaleHandler(secureCookies bool) *LocaleHandler {
	return &LocaleHandler{secure: secureCookies}
}

// Set handles POST /locale. It persists the choice in the lang cookie and
// sends the visitor back to the page they came from.
func (h *LocaleHandler) Set(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	lang, ok := i18n.Match(r.PostFormValue("lang"))
	if !ok {
		http.Error(w, "unsupported language", http.StatusBadRequest)
		return
	}

	// Not HttpOnly: the switcher script reads it to preselect the option.
	http.SetCookie(w, &http.Cookie{
		Name:     i18n.CookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secure,
	})

	if isHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, backPath(r), http.StatusSeeOther)
}

// backPath returns the local path to return to: the "next" form value, else
// the Referer. Anything that is not a local path yields "/".
func backPath(r *http.Request) string {
	for _, raw := range []string{r.PostFormValue("next"), r.Referer()} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if u.Host != "" && u.Host != r.Host {
			continue
		}
		if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
			continue
		}
		if u.RawQuery != "" {
			return u.Path + "?" + u.RawQuery
		}
		return u.Path
	}
	return "/"
}
