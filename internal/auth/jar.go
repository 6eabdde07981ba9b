package auth

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
)

// SessionJar is an http.CookieJar that keeps the accounts API's cookies in
// the visitor's session. It is bound to one request context and serves a
// single API host, so cookie domains and paths are not tracked.
type SessionJar struct {
	mu       sync.Mutex
	sessions *scs.SessionManager
	ctx      context.Context
	now      func() time.Time
}

func NewSessionJar(sm *scs.SessionManager, ctx context.Context) *SessionJar {
	return &SessionJar{sessions: sm, ctx: ctx, now: time.Now}
}

func (j *SessionJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	stored := j.load()
	now := j.now()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			delete(stored, c.Name)
			continue
		}
		stored[c.Name] = c.Value
	}
	j.sessions.Put(j.ctx, SessionCookiesKey, stored)
}

func (j *SessionJar) Cookies(_ *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	stored := j.load()
	names := make([]string, 0, len(stored))
	for name := range stored {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		out = append(out, &http.Cookie{Name: name, Value: stored[name]})
	}
	return out
}

// Clear forgets every stored API cookie.
func (j *SessionJar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.sessions.Remove(j.ctx, SessionCookiesKey)
}

// load returns a copy of the stored cookies.
func (j *SessionJar) load() map[string]string {
	out := map[string]string{}
	if m, ok := j.sessions.Get(j.ctx, SessionCookiesKey).(map[string]string); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
