package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var me = Key{"me"}

type user struct{ Username string }

func TestKey_String(t *testing.T) {
	assert.Equal(t, `["me"]`, Key{"me"}.String())
	assert.Equal(t, Key{"a", "b"}.String(), Key{"a", "b"}.String())
	assert.NotEqual(t, Key{"a,b"}.String(), Key{"a", "b"}.String())
}

func TestGet_AbsentUntilFetched(t *testing.T) {
	c := New[*user]()

	_, ok := c.Get(me)
	assert.False(t, ok)

	u, err := c.Fetch(context.Background(), me, func(context.Context) (*user, error) {
		return &user{Username: "alice"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	got, ok := c.Get(me)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)
}

func TestGet_NeverLoads(t *testing.T) {
	c := New[*user]()
	c.Set(me, &user{Username: "bob"})

	for i := 0; i < 2; i++ {
		got, ok := c.Get(me)
		require.True(t, ok)
		assert.Equal(t, "bob", got.Username)
	}
}

func TestFetch_ConcurrentCallersShareOneLoad(t *testing.T) {
	c := New[*user]()

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (*user, error) {
		calls.Add(1)
		<-release
		return &user{Username: "carol"}, nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]*user, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := c.Fetch(context.Background(), me, load)
			assert.NoError(t, err)
			results[i] = u
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond) // let the remaining callers join the flight
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, u := range results {
		assert.Same(t, results[0], u)
	}
}

func TestFetch_ErrorSurfacedWithoutRetry(t *testing.T) {
	c := New[*user]()
	c.Set(me, &user{Username: "dave"})
	c.Invalidate(me)

	boom := errors.New("boom")
	var calls int
	_, err := c.Fetch(context.Background(), me, func(context.Context) (*user, error) {
		calls++
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, c.Err(me), boom)

	got, ok := c.Get(me)
	require.True(t, ok, "previous value is kept")
	assert.Equal(t, "dave", got.Username)
}

func TestFetch_LoaderPanicBecomesError(t *testing.T) {
	c := New[*user]()
	_, err := c.Fetch(context.Background(), me, func(context.Context) (*user, error) {
		panic("nope")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestFetch_CallerCancellationDoesNotAbortLoad(t *testing.T) {
	c := New[*user]()
	release := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, me, func(lctx context.Context) (*user, error) {
			<-release
			return &user{Username: "erin"}, lctx.Err()
		})
		done <- err
	}()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		_, ok := c.Get(me)
		return ok
	}, time.Second, time.Millisecond)
}

func TestInvalidate_DiscardsInFlightLoad(t *testing.T) {
	c := New[*user]()
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _ = c.Fetch(context.Background(), me, func(context.Context) (*user, error) {
			close(started)
			<-release
			return nil, nil // "no user" from before login
		})
	}()
	<-started
	c.Invalidate(me)

	u, err := c.Fetch(context.Background(), me, func(context.Context) (*user, error) {
		return &user{Username: "frank"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "frank", u.Username)

	close(release)
	time.Sleep(20 * time.Millisecond)

	got, ok := c.Get(me)
	require.True(t, ok)
	require.NotNil(t, got, "superseded load must not overwrite")
	assert.Equal(t, "frank", got.Username)
}

func TestInvalidate_DoesNotLoad(t *testing.T) {
	c := New[*user]()
	c.Set(me, &user{Username: "gina"})
	c.Invalidate(me)

	assert.True(t, c.IsStale(me))
	got, ok := c.Get(me)
	require.True(t, ok)
	assert.Equal(t, "gina", got.Username)
}

func TestEnsure_UsesFreshValueAndRefetchesStale(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New[*user](WithClock(clock), WithStaleTime(time.Minute))

	var calls int
	load := func(context.Context) (*user, error) {
		calls++
		return &user{Username: "hank"}, nil
	}

	_, err := c.Ensure(context.Background(), me, load)
	require.NoError(t, err)
	_, err = c.Ensure(context.Background(), me, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "fresh value served from cache")

	clock.Advance(time.Minute)
	_, err = c.Ensure(context.Background(), me, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired value refetched")

	c.Invalidate(me)
	_, err = c.Ensure(context.Background(), me, load)
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "invalidated value refetched")
	assert.False(t, c.IsStale(me))
}

func TestSet_NilIsAValue(t *testing.T) {
	c := New[*user]()
	c.Set(me, nil)

	got, ok := c.Get(me)
	assert.True(t, ok)
	assert.Nil(t, got)

	u, err := c.Ensure(context.Background(), me, func(context.Context) (*user, error) {
		t.Fatal("fresh nil must not reload")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestPrefetch_ReturnsImmediatelyAndStores(t *testing.T) {
	c := New[*user]()
	release := make(chan struct{})

	c.Prefetch(context.Background(), me, func(context.Context) (*user, error) {
		<-release
		return &user{Username: "ivy"}, nil
	})
	_, ok := c.Get(me)
	assert.False(t, ok)

	close(release)
	require.Eventually(t, func() bool {
		u, ok := c.Get(me)
		return ok && u.Username == "ivy"
	}, time.Second, time.Millisecond)
}

func TestPrefetch_FailureIsSwallowed(t *testing.T) {
	c := New[*user]()
	c.Prefetch(context.Background(), me, func(context.Context) (*user, error) {
		return nil, errors.New("down")
	})
	require.Eventually(t, func() bool { return c.Err(me) != nil }, time.Second, time.Millisecond)
}
