// Package querycache is a keyed cache of asynchronously loaded values with
// single-flight fetching, invalidation, direct writes and background
// prefetching.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/joestump/experiment40/internal/metrics"
)

// DefaultStaleTime is how long a loaded value is trusted by Ensure.
const DefaultStaleTime = 5 * time.Minute

// Key addresses one cache entry. Two keys are equal when their parts are.
type Key []string

func (k Key) String() string {
	b, _ := json.Marshal([]string(k))
	return string(b)
}

// Loader produces the value for a key, usually by calling a remote service.
type Loader[V any] func(ctx context.Context) (V, error)

type Option func(*options)

type options struct {
	clock     clockwork.Clock
	staleTime time.Duration
	log       *zap.Logger
}

func WithClock(c clockwork.Clock) Option { return func(o *options) { o.clock = c } }

func WithStaleTime(d time.Duration) Option { return func(o *options) { o.staleTime = d } }

func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

type entry[V any] struct {
	value     V
	hasValue  bool
	err       error
	stale     bool
	updatedAt time.Time
	// gen changes on every Invalidate and Set; a flight only stores its
	// result if gen is unchanged since it started.
	gen uint64
}

// Cache is safe for concurrent use. The zero value is not usable; call New.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]*entry[V]
	group   singleflight.Group

	clock     clockwork.Clock
	staleTime time.Duration
	log       *zap.Logger
}

func New[V any](opts ...Option) *Cache[V] {
	o := options{
		clock:     clockwork.NewRealClock(),
		staleTime: DefaultStaleTime,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		entries:   make(map[string]*entry[V]),
		clock:     o.clock,
		staleTime: o.staleTime,
		log:       o.log,
	}
}

func (c *Cache[V]) entryLocked(k string) *entry[V] {
	e, ok := c.entries[k]
	if !ok {
		e = &entry[V]{}
		c.entries[k] = e
	}
	return e
}

// Get returns the last stored value for key without loading anything. The
// value is returned even if it has been invalidated since.
func (c *Cache[V]) Get(key Key) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || !e.hasValue {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Err returns the error of the most recent failed load of key, or nil.
func (c *Cache[V]) Err(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key.String()]; ok {
		return e.err
	}
	return nil
}

// IsStale reports whether key has been invalidated and not reloaded since.
func (c *Cache[V]) IsStale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	return ok && e.stale
}

// Fetch loads key with load and stores the result. Concurrent fetches of the
// same key share a single call to load. The load runs detached from ctx, so a
// caller giving up does not fail the others; that caller gets ctx.Err().
func (c *Cache[V]) Fetch(ctx context.Context, key Key, load Loader[V]) (V, error) {
	k := key.String()

	c.mu.Lock()
	gen := c.entryLocked(k).gen
	c.mu.Unlock()

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := c.run(loadCtx, load)
		c.store(k, gen, v, err)
		return v, err
	})

	var zero V
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *Cache[V]) run(ctx context.Context, load Loader[V]) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("querycache: loader panicked: %v", r)
		}
	}()
	return load(ctx)
}

func (c *Cache[V]) store(k string, gen uint64, v V, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(k)
	if e.gen != gen {
		metrics.CacheFetchesTotal.WithLabelValues("discarded").Inc()
		c.log.Debug("discarding superseded load", zap.String("key", k))
		return
	}
	if err != nil {
		metrics.CacheFetchesTotal.WithLabelValues("error").Inc()
		e.err = err
		return
	}
	metrics.CacheFetchesTotal.WithLabelValues("ok").Inc()
	e.value = v
	e.hasValue = true
	e.err = nil
	e.stale = false
	e.updatedAt = c.clock.Now()
}

// Ensure returns the cached value when it is present, not invalidated and
// younger than the stale time; otherwise it fetches.
func (c *Cache[V]) Ensure(ctx context.Context, key Key, load Loader[V]) (V, error) {
	c.mu.Lock()
	e, ok := c.entries[key.String()]
	if ok && e.hasValue && !e.stale && c.clock.Since(e.updatedAt) < c.staleTime {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()
	return c.Fetch(ctx, key, load)
}

// Invalidate marks key stale. It does not load; the next Ensure or Fetch
// does. A load already in flight will not overwrite the entry.
func (c *Cache[V]) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key.String())
	e.stale = true
	e.gen++
}

// Set overwrites the value for key without loading.
func (c *Cache[V]) Set(key Key, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key.String())
	e.value = v
	e.hasValue = true
	e.err = nil
	e.stale = false
	e.updatedAt = c.clock.Now()
	e.gen++
}

// Prefetch starts a Fetch in the background and returns immediately. Load
// failures are logged, not returned.
func (c *Cache[V]) Prefetch(ctx context.Context, key Key, load Loader[V]) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if _, err := c.Fetch(ctx, key, load); err != nil {
			c.log.Warn("prefetch failed", zap.Stringer("key", key), zap.Error(err))
		}
	}()
}
