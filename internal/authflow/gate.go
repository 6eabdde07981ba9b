package authflow

// Gate decides, from the session cache alone, whether the auth page should
// be skipped. It never loads anything.
type Gate struct {
	cache UserCache
}

func NewGate(c UserCache) *Gate { return &Gate{cache: c} }

// ShouldRedirect reports whether the cache holds a signed-in user.
func (g *Gate) ShouldRedirect() bool {
	u, ok := g.cache.Get(MeKey)
	return ok && u != nil
}
