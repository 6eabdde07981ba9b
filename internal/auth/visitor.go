package auth

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/joestump/experiment40/internal/accounts"
	"github.com/joestump/experiment40/internal/metrics"
	"github.com/joestump/experiment40/internal/querycache"
)

// Visitor is one browser session and its session cache.
type Visitor struct {
	ID    string
	Cache *querycache.Cache[*accounts.User]

	lastSeen time.Time
	submit   sync.Mutex
}

// BeginSubmit claims the visitor's single submission slot. It reports false
// when another submission of this visitor is still running.
func (v *Visitor) BeginSubmit() bool { return v.submit.TryLock() }

// EndSubmit releases the slot claimed by BeginSubmit.
func (v *Visitor) EndSubmit() { v.submit.Unlock() }

// Registry owns the visitors known to this process. Visitors are created on
// first use and dropped by Sweep once idle for longer than the TTL; a dropped
// visitor simply starts over with an empty cache.
type Registry struct {
	mu       sync.Mutex
	visitors map[string]*Visitor

	ttl       time.Duration
	clock     clockwork.Clock
	log       *zap.Logger
	cacheOpts []querycache.Option
}

type RegistryConfig struct {
	TTL          time.Duration
	Clock        clockwork.Clock
	Logger       *zap.Logger
	CacheOptions []querycache.Option
}

func NewRegistry(cfg RegistryConfig) *Registry {
	r := &Registry{
		visitors:  make(map[string]*Visitor),
		ttl:       cfg.TTL,
		clock:     cfg.Clock,
		log:       cfg.Logger,
		cacheOpts: cfg.CacheOptions,
	}
	if r.clock == nil {
		r.clock = clockwork.NewRealClock()
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Get returns the visitor with id, creating it if needed, and marks it seen.
func (r *Registry) Get(id string) *Visitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[id]
	if !ok {
		v = &Visitor{ID: id, Cache: querycache.New[*accounts.User](r.cacheOpts...)}
		r.visitors[id] = v
		metrics.VisitorsActive.Inc()
	}
	v.lastSeen = r.clock.Now()
	return v
}

// Len returns the number of live visitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// Sweep drops visitors idle for longer than the TTL and returns how many
// were dropped. A zero TTL disables sweeping.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.clock.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, v := range r.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(r.visitors, id)
			n++
		}
	}
	metrics.VisitorsActive.Sub(float64(n))
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.Chan():
			if n := r.Sweep(); n > 0 {
				r.log.Debug("swept idle visitors", zap.Int("count", n), zap.Int("remaining", r.Len()))
			}
		case <-ctx.Done():
			return
		}
	}
}
