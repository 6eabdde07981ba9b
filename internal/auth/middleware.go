package auth

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

type contextKey string

const VisitorContextKey contextKey = "visitor"

// Middleware attaches the visitor behind the session to each request.
type Middleware struct {
	sessions *scs.SessionManager
	visitors *Registry
}

func NewMiddleware(sm *scs.SessionManager, visitors *Registry) *Middleware {
	return &Middleware{sessions: sm, visitors: visitors}
}

// Visitor ensures the session carries a visitor id and puts the *Visitor on
// the request context. Must run inside the session manager's LoadAndSave.
func (m *Middleware) Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.sessions.GetString(r.Context(), SessionVisitorKey)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			m.sessions.Put(r.Context(), SessionVisitorKey, id)
		}
		v := m.visitors.Get(id)
		ctx := context.WithValue(r.Context(), VisitorContextKey, v)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Jar returns the API cookie jar of the request's session.
func (m *Middleware) Jar(r *http.Request) *SessionJar {
	return NewSessionJar(m.sessions, r.Context())
}

// VisitorFromContext retrieves the visitor set by Middleware.Visitor.
func VisitorFromContext(ctx context.Context) *Visitor {
	v, _ := ctx.Value(VisitorContextKey).(*Visitor)
	return v
}
