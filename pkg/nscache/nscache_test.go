package nscache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/fallback"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/nscache"
	"github.com/dmitrymomot/polyglot/pkg/source"
)

// countingFetcher counts calls per pair and can hold fetches until released.
type countingFetcher struct {
	data source.Map
	gate chan struct{}

	mu    sync.Mutex
	calls map[string]int
	total atomic.Int32
}

func newCountingFetcher(data source.Map) *countingFetcher {
	return &countingFetcher{data: data, calls: make(map[string]int)}
}

func (f *countingFetcher) Fetch(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
	f.mu.Lock()
	f.calls[lang+"/"+namespace]++
	f.mu.Unlock()
	f.total.Add(1)

	if f.gate != nil {
		<-f.gate
	}
	return f.data.Fetch(ctx, lang, namespace)
}

func (f *countingFetcher) count(pair string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[pair]
}

func testData() source.Map {
	return source.Map{
		"en": {
			"dashboard": {"title": "Dashboard"},
			"settings":  {"title": "Settings"},
		},
		"fr": {
			"settings": {"title": "Paramètres"},
		},
	}
}

func newCache(f source.Fetcher) *nscache.Cache {
	return nscache.New(fallback.New(f), "en")
}

func TestCache_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("second call is cached and identical", func(t *testing.T) {
		t.Parallel()

		f := newCountingFetcher(testData())
		c := newCache(f)

		first := c.Get(ctx, "fr", "settings")
		second := c.Get(ctx, "fr", "settings")

		require.Same(t, first, second)
		v, _ := first.Lookup("title")
		require.Equal(t, "Paramètres", v)
		require.Equal(t, 1, f.count("fr/settings"))
		require.Equal(t, 1, c.Len())
	})

	t.Run("fallback fetched exactly once", func(t *testing.T) {
		t.Parallel()

		f := newCountingFetcher(testData())
		c := newCache(f)

		b := c.Get(ctx, "fr", "dashboard")
		c.Get(ctx, "fr", "dashboard")

		v, _ := b.Lookup("title")
		require.Equal(t, "Dashboard", v)
		require.Equal(t, 1, f.count("fr/dashboard"))
		require.Equal(t, 1, f.count("en/dashboard"))
	})

	t.Run("missing everywhere yields memoized sentinel", func(t *testing.T) {
		t.Parallel()

		f := newCountingFetcher(testData())
		c := newCache(f)

		b := c.Get(ctx, "fr", "ghost")
		require.Same(t, i18n.EmptyBundle(), b)

		c.Get(ctx, "fr", "ghost")
		require.Equal(t, int32(2), f.total.Load())
	})

	t.Run("nil resolver result becomes sentinel", func(t *testing.T) {
		t.Parallel()

		c := nscache.New(nscache.ResolverFunc(func(context.Context, string, string, string) *i18n.Bundle {
			return nil
		}), "en")

		require.True(t, c.Get(ctx, "en", "x").Missing())
	})
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	f := newCountingFetcher(testData())
	f.gate = make(chan struct{})
	c := newCache(f)

	const callers = 50
	results := make([]*i18n.Bundle, callers)

	var started, done sync.WaitGroup
	started.Add(callers)
	for i := range callers {
		done.Go(func() {
			started.Done()
			results[i] = c.Get(context.Background(), "en", "dashboard")
		})
	}
	started.Wait()

	// Give the callers time to join the in-flight resolution.
	require.Eventually(t, func() bool { return f.total.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.gate)
	done.Wait()

	require.Equal(t, 1, f.count("en/dashboard"))
	for _, b := range results {
		require.Same(t, results[0], b)
	}
}

func TestCache_StampedeResolvesOnce(t *testing.T) {
	t.Parallel()

	const (
		rounds  = 200
		callers = 16
	)

	for range rounds {
		var calls atomic.Int32
		c := nscache.New(nscache.ResolverFunc(func(context.Context, string, string, string) *i18n.Bundle {
			calls.Add(1)
			return i18n.NewBundle(map[string]any{"title": "Dashboard"})
		}), "en")

		var wg sync.WaitGroup
		for range callers {
			wg.Go(func() {
				c.Get(context.Background(), "en", "dashboard")
			})
		}
		wg.Wait()

		require.Equal(t, int32(1), calls.Load())
	}
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("refetches invalidated language only", func(t *testing.T) {
		t.Parallel()

		f := newCountingFetcher(testData())
		c := newCache(f)

		c.Get(ctx, "fr", "settings")
		c.Get(ctx, "en", "settings")
		require.Equal(t, 2, c.Len())

		c.Invalidate("fr")
		require.Equal(t, 1, c.Len())

		c.Get(ctx, "fr", "settings")
		c.Get(ctx, "en", "settings")

		require.Equal(t, 2, f.count("fr/settings"))
		require.Equal(t, 1, f.count("en/settings"))
	})

	t.Run("invalidate all", func(t *testing.T) {
		t.Parallel()

		f := newCountingFetcher(testData())
		c := newCache(f)

		c.Get(ctx, "fr", "settings")
		c.Get(ctx, "en", "settings")
		c.InvalidateAll()
		require.Zero(t, c.Len())

		c.Get(ctx, "en", "settings")
		require.Equal(t, 2, f.count("en/settings"))
	})

	t.Run("in-flight resolution does not repopulate", func(t *testing.T) {
		t.Parallel()

		f := newCountingFetcher(testData())
		f.gate = make(chan struct{})
		c := newCache(f)

		got := make(chan *i18n.Bundle, 1)
		go func() { got <- c.Get(ctx, "fr", "settings") }()

		require.Eventually(t, func() bool { return f.total.Load() == 1 }, time.Second, time.Millisecond)
		c.Invalidate("fr")
		close(f.gate)

		b := <-got
		require.False(t, b.Missing())
		require.Zero(t, c.Len())

		c.Get(ctx, "fr", "settings")
		require.Equal(t, 2, f.count("fr/settings"))
	})

	t.Run("in-flight resolution survives invalidate all", func(t *testing.T) {
		t.Parallel()

		f := newCountingFetcher(testData())
		f.gate = make(chan struct{})
		c := newCache(f)

		got := make(chan *i18n.Bundle, 1)
		go func() { got <- c.Get(ctx, "en", "settings") }()

		require.Eventually(t, func() bool { return f.total.Load() == 1 }, time.Second, time.Millisecond)
		c.InvalidateAll()
		close(f.gate)

		<-got
		require.Zero(t, c.Len())
	})
}

func TestCache_AbandonedCaller(t *testing.T) {
	t.Parallel()

	f := newCountingFetcher(testData())
	f.gate = make(chan struct{})
	c := newCache(f)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan *i18n.Bundle, 1)
	go func() { got <- c.Get(ctx, "en", "dashboard") }()

	require.Eventually(t, func() bool { return f.total.Load() == 1 }, time.Second, time.Millisecond)
	cancel()

	require.Same(t, i18n.EmptyBundle(), <-got)
	require.Zero(t, c.Len())

	close(f.gate)
	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, time.Millisecond)

	b := c.Get(context.Background(), "en", "dashboard")
	v, _ := b.Lookup("title")
	require.Equal(t, "Dashboard", v)
	require.Equal(t, 1, f.count("en/dashboard"))
}

func TestCache_Preload(t *testing.T) {
	t.Parallel()

	f := newCountingFetcher(testData())
	c := nscache.New(fallback.New(f), "en", nscache.WithPreloadConcurrency(2))

	require.NoError(t, c.Preload(context.Background(), "fr", "settings", "dashboard", "ghost"))
	require.Equal(t, 3, c.Len())

	c.Get(context.Background(), "fr", "dashboard")
	require.Equal(t, 1, f.count("fr/dashboard"))
}

// Supported {en, fr}, default and fallback en.
func TestCache_FallbackScenario(t *testing.T) {
	t.Parallel()

	f := newCountingFetcher(source.Map{
		"en": {"dashboard": {"title": "Dashboard"}},
	})
	c := newCache(f)
	ctx := context.Background()

	b := c.Get(ctx, "fr", "dashboard")
	v, ok := b.Lookup("title")
	require.True(t, ok)
	require.Equal(t, "Dashboard", v)

	require.Same(t, i18n.EmptyBundle(), c.Get(ctx, "fr", "ghost"))
}
