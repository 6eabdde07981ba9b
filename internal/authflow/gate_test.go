package authflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joestump/experiment40/internal/accounts"
	"github.com/joestump/experiment40/internal/querycache"
)

func TestGate(t *testing.T) {
	cache := querycache.New[*accounts.User]()
	gate := NewGate(cache)

	assert.False(t, gate.ShouldRedirect(), "never loaded")

	cache.Set(MeKey, nil)
	assert.False(t, gate.ShouldRedirect(), "loaded as signed out")

	cache.Set(MeKey, &accounts.User{ID: 7, Username: "alice"})
	assert.True(t, gate.ShouldRedirect())

	cache.Invalidate(MeKey)
	assert.True(t, gate.ShouldRedirect(), "a stale user still counts")

	cache.Set(querycache.Key{"other"}, nil)
	assert.True(t, gate.ShouldRedirect())
}
