// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"

	"github.com/joestump/experiment40/internal/auth"
	"github.com/joestump/experiment40/internal/db"
)

// NewTestDB opens an in-memory SQLite DB and runs all goose migrations.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	// A named shared-cache memory DB lets every pool connection see the
	// same tables; the name is unique per test.
	dsn := "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared"
	conn, err := db.New(context.Background(), "sqlite3", dsn)
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Migrate(context.Background(), conn, "sqlite3", nil); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return conn
}

// NewTestSessions returns a session manager over a fresh test DB with
// non-secure cookies, so httptest requests can carry them back.
func NewTestSessions(t *testing.T) *scs.SessionManager {
	t.Helper()
	return auth.NewSessionManager(NewTestDB(t), "sqlite3", time.Hour, false)
}
