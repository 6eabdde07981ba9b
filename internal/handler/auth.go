package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/joestump/experiment40/internal/accounts"
	"github.com/joestump/experiment40/internal/auth"
	"github.com/joestump/experiment40/internal/authflow"
	"github.com/joestump/experiment40/internal/i18n"
	"github.com/joestump/experiment40/internal/logger"
	"github.com/joestump/experiment40/internal/metrics"
)

const (
	viewLogin    = "login"
	viewRegister = "register"
)

// AuthPage is the template data for the login / registration page.
type AuthPage struct {
	BasePage
	View        string            // viewLogin or viewRegister
	Username    string            // echoed back after a rejected submission
	Email       string            // echoed back after a rejected submission
	Errors      map[string]string // field name -> translated message
	Redirecting bool
}

// FieldView is one input of the auth forms.
type FieldView struct {
	Name  string
	Type  string
	Label string
	Value string
	Error string
}

func (p AuthPage) Field(name, inputType, value string) FieldView {
	return FieldView{
		Name:  name,
		Type:  inputType,
		Label: p.T("auth.field." + name),
		Value: value,
		Error: p.Errors[name],
	}
}

// AuthHandler serves the auth page and runs its form submissions.
type AuthHandler struct {
	site     Site
	accounts *accounts.Client
	visitors *auth.Middleware
	clock    clockwork.Clock
}

func NewAuthHandler(site Site, ac *accounts.Client, mw *auth.Middleware, clock clockwork.Clock) *AuthHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AuthHandler{site: site, accounts: ac, visitors: mw, clock: clock}
}

func (h *AuthHandler) newPage(r *http.Request, view string) AuthPage {
	return AuthPage{BasePage: h.site.newBasePage(r), View: view}
}

// remote binds the accounts client to the request's visitor.
func (h *AuthHandler) remote(r *http.Request) *accounts.Session {
	return h.accounts.Session(h.visitors.Jar(r), i18n.FromContext(r.Context()).Lang())
}

// Show serves GET /auth. A visitor whose cache already holds a user goes
// straight to the dashboard.
func (h *AuthHandler) Show(w http.ResponseWriter, r *http.Request) {
	v := auth.VisitorFromContext(r.Context())
	if authflow.NewGate(v.Cache).ShouldRedirect() {
		http.Redirect(w, r, authflow.DashboardPath, http.StatusFound)
		return
	}
	view := viewLogin
	if r.URL.Query().Get("view") == viewRegister {
		view = viewRegister
	}
	render(w, http.StatusOK, "auth.html", h.newPage(r, view))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	creds := accounts.Credentials{
		Username: r.PostFormValue(authflow.FieldUsername),
		Password: r.PostFormValue(authflow.FieldPassword),
	}
	page := h.newPage(r, viewLogin)
	page.Username = creds.Username
	h.submit(w, r, authflow.KindLogin, page, func(ctx context.Context, c *authflow.Controller) authflow.Result {
		return c.SubmitLogin(ctx, creds)
	})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	reg := accounts.Registration{
		Username:             r.PostFormValue(authflow.FieldUsername),
		Email:                r.PostFormValue(authflow.FieldEmail),
		Password:             r.PostFormValue(authflow.FieldPassword),
		PasswordConfirmation: r.PostFormValue(authflow.FieldPasswordConfirmation),
	}
	page := h.newPage(r, viewRegister)
	page.Username = reg.Username
	page.Email = reg.Email
	h.submit(w, r, authflow.KindRegister, page, func(ctx context.Context, c *authflow.Controller) authflow.Result {
		return c.SubmitRegistration(ctx, reg)
	})
}

func (h *AuthHandler) submit(w http.ResponseWriter, r *http.Request, kind authflow.Kind, page AuthPage,
	run func(context.Context, *authflow.Controller) authflow.Result) {
	ctx := r.Context()
	v := auth.VisitorFromContext(ctx)
	p := i18n.FromContext(ctx)

	if !v.BeginSubmit() {
		metrics.SubmissionsTotal.WithLabelValues(string(kind), authflow.Busy.String()).Inc()
		page.Toasts = append(page.Toasts, Toast{Type: string(authflow.LevelError), Message: p.T("auth.busy")})
		render(w, http.StatusConflict, "auth.html", page)
		return
	}

	toasts := &toastCollector{}
	nav := newNavSignal()
	ctrl := authflow.NewController(authflow.Deps{
		Remote:     h.remote(r),
		Cache:      v.Cache,
		Notifier:   toasts,
		Navigator:  nav,
		Translator: p,
		Clock:      h.clock,
		Logger:     logger.FromContext(ctx),
	})
	defer ctrl.Close()

	res := func() authflow.Result {
		defer v.EndSubmit()
		return run(ctx, ctrl)
	}()
	page.Toasts = toasts.list()

	switch res.Outcome {
	case authflow.Succeeded:
		page.Redirecting = true
		h.stream(w, r, page, nav)
	case authflow.Busy:
		page.Toasts = append(page.Toasts, Toast{Type: string(authflow.LevelError), Message: p.T("auth.busy")})
		render(w, http.StatusConflict, "auth.html", page)
	default:
		page.Errors = make(map[string]string, len(res.Fields))
		for field, key := range res.Fields {
			page.Errors[field] = p.T(key)
		}
		render(w, http.StatusUnprocessableEntity, "auth.html", page)
	}
}

// stream sends the success page at once, then holds the response open until
// the controller navigates and appends the redirect. A visitor who leaves
// first ends the request context; the deferred Close then drops the
// navigation.
func (h *AuthHandler) stream(w http.ResponseWriter, r *http.Request, page AuthPage, nav *navSignal) {
	log := logger.FromContext(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := renderPart(w, "auth.html", "page_open", page); err != nil {
		log.Error("render success page", zap.Error(err))
		return
	}
	if err := http.NewResponseController(w).Flush(); err != nil {
		log.Debug("response does not support flushing", zap.Error(err))
	}

	select {
	case path := <-nav.ch:
		if err := renderPart(w, "auth.html", "navigate", path); err != nil {
			log.Error("render navigation", zap.Error(err))
			return
		}
	case <-r.Context().Done():
		log.Debug("visitor left before navigation")
		return
	}
	if err := renderPart(w, "auth.html", "page_close", page); err != nil {
		log.Error("render success page", zap.Error(err))
	}
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v := auth.VisitorFromContext(ctx)
	jar := h.visitors.Jar(r)

	if err := h.accounts.Session(jar, i18n.FromContext(ctx).Lang()).Logout(ctx); err != nil {
		logger.FromContext(ctx).Warn("remote logout failed", zap.Error(err))
	}
	v.Cache.Set(authflow.MeKey, nil)
	jar.Clear()
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

type toastCollector struct {
	mu     sync.Mutex
	toasts []Toast
}

func (c *toastCollector) Notify(n authflow.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toasts = append(c.toasts, Toast{Type: string(n.Level), Message: n.Message})
}

func (c *toastCollector) list() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Toast(nil), c.toasts...)
}

// navSignal hands the controller's navigation to the streaming response.
type navSignal struct {
	ch chan string
}

func newNavSignal() *navSignal { return &navSignal{ch: make(chan string, 1)} }

func (n *navSignal) Navigate(path string) {
	select {
	case n.ch <- path:
	default:
	}
}
