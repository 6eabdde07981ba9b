package auth_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/experiment40/internal/auth"
	"github.com/joestump/experiment40/internal/testutil"
)

// browser replays the cookies of its previous response.
type browser struct {
	h       http.Handler
	cookies []*http.Cookie
}

func (b *browser) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)
	res := rec.Result()
	if set := res.Cookies(); len(set) > 0 {
		b.cookies = set
	}
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestVisitorMiddleware_StableAcrossRequests(t *testing.T) {
	sm := testutil.NewTestSessions(t)
	mw := auth.NewMiddleware(sm, auth.NewRegistry(auth.RegistryConfig{TTL: time.Hour}))

	h := sm.LoadAndSave(mw.Visitor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := auth.VisitorFromContext(r.Context())
		if v == nil {
			http.Error(w, "no visitor", http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, v.ID)
	})))

	b := &browser{h: h}
	res, first := b.get(t, "/")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, first, 36)
	require.NotEmpty(t, b.cookies, "session cookie issued")

	_, second := b.get(t, "/")
	assert.Equal(t, first, second)

	other := &browser{h: h}
	_, third := other.get(t, "/")
	assert.NotEqual(t, first, third)
}

func TestVisitorFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, auth.VisitorFromContext(req.Context()))
}

func TestSessionJar(t *testing.T) {
	sm := testutil.NewTestSessions(t)
	mw := auth.NewMiddleware(sm, auth.NewRegistry(auth.RegistryConfig{}))

	h := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jar := mw.Jar(r)
		switch r.URL.Path {
		case "/login":
			jar.SetCookies(nil, []*http.Cookie{
				{Name: "access_token", Value: "a1"},
				{Name: "refresh_token", Value: "r1"},
				{Name: "csrftoken", Value: "c1"},
			})
		case "/rotate":
			jar.SetCookies(nil, []*http.Cookie{
				{Name: "access_token", Value: "a2"},
				{Name: "refresh_token", MaxAge: -1},
				{Name: "csrftoken", Value: "gone", Expires: time.Now().Add(-time.Hour)},
			})
		case "/clear":
			jar.Clear()
		}
		var parts []string
		for _, c := range jar.Cookies(nil) {
			parts = append(parts, c.Name+"="+c.Value)
		}
		_, _ = io.WriteString(w, strings.Join(parts, ";"))
	}))

	b := &browser{h: h}
	_, body := b.get(t, "/")
	assert.Empty(t, body)

	_, body = b.get(t, "/login")
	assert.Equal(t, "access_token=a1;csrftoken=c1;refresh_token=r1", body)

	_, body = b.get(t, "/")
	assert.Equal(t, "access_token=a1;csrftoken=c1;refresh_token=r1", body, "persisted in the session")

	_, body = b.get(t, "/rotate")
	assert.Equal(t, "access_token=a2", body)

	_, body = b.get(t, "/clear")
	assert.Empty(t, body)
	_, body = b.get(t, "/")
	assert.Empty(t, body)
}
