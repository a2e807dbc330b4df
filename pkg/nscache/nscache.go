// Package nscache memoizes translation bundles per (language, namespace).
//
// A miss is resolved through a [Resolver] (normally a fallback.Resolver) at
// most once at a time per key: concurrent callers for the same key share one
// in-flight resolution. The result is kept until it is invalidated; entries
// never expire on their own.
//
//	c := nscache.New(fallback.New(fetcher), "en")
//	b := c.Get(ctx, "fr", "dashboard")
//	c.Invalidate("fr") // next Get for any fr namespace fetches again
//
// A resolution runs detached from the caller's cancellation. A caller whose
// context ends while waiting gets the empty-bundle sentinel right away; the
// resolution still completes and populates the cache for later callers.
package nscache

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// Resolver produces the bundle for a pair, falling back as it sees fit.
// It must never return an error; the empty-bundle sentinel stands for failure.
type Resolver interface {
	Resolve(ctx context.Context, lang, namespace, fallbackLang string) *i18n.Bundle
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, lang, namespace, fallbackLang string) *i18n.Bundle

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, lang, namespace, fallbackLang string) *i18n.Bundle {
	return f(ctx, lang, namespace, fallbackLang)
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
// Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPreloadConcurrency limits how many namespaces Preload resolves at once.
// Default: 4.
func WithPreloadConcurrency(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.preloadLimit = n
		}
	}
}

type key struct {
	lang      string
	namespace string
}

// stamp identifies the cache generation a resolution started in.
type stamp struct {
	epoch uint64
	gen   uint64
}

// Cache is a concurrency-safe bundle memo.
type Cache struct {
	resolver     Resolver
	fallback     string
	logger       *slog.Logger
	preloadLimit int

	mu      sync.RWMutex
	entries map[key]*i18n.Bundle
	gens    map[string]uint64
	epoch   uint64

	sf singleflight.Group
}

// New creates a Cache that resolves misses through resolver, using
// fallbackLang as the fallback for every language.
func New(resolver Resolver, fallbackLang string, opts ...Option) *Cache {
	c := &Cache{
		resolver:     resolver,
		fallback:     fallbackLang,
		logger:       logger.NewNope(),
		preloadLimit: 4,
		entries:      make(map[key]*i18n.Bundle),
		gens:         make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the bundle for (lang, namespace). It never fails: the worst
// case is i18n.EmptyBundle(). A cached entry is returned as the identical
// pointer on every call until invalidated.
func (c *Cache) Get(ctx context.Context, lang, namespace string) *i18n.Bundle {
	k := key{lang: lang, namespace: namespace}

	c.mu.RLock()
	b, ok := c.entries[k]
	st := stamp{epoch: c.epoch, gen: c.gens[lang]}
	c.mu.RUnlock()
	if ok {
		return b
	}

	return c.await(ctx, k, st)
}

// await joins or starts the flight for k. The flight re-checks the memo
// first: a flight that finished between the caller's miss and DoChan has
// already stored the entry and left the group.
func (c *Cache) await(ctx context.Context, k key, st stamp) *i18n.Bundle {
	ch := c.sf.DoChan(flightKey(k, st), func() (any, error) {
		c.mu.RLock()
		b, ok := c.entries[k]
		c.mu.RUnlock()
		if ok {
			return b, nil
		}
		return c.load(context.WithoutCancel(ctx), k, st), nil
	})

	select {
	case res := <-ch:
		return res.Val.(*i18n.Bundle)
	case <-ctx.Done():
		c.logger.DebugContext(ctx, "bundle wait abandoned",
			slog.String("lang", k.lang),
			slog.String("namespace", k.namespace),
		)
		return i18n.EmptyBundle()
	}
}

// load resolves k and stores the result unless the language was
// invalidated after the resolution started.
func (c *Cache) load(ctx context.Context, k key, st stamp) *i18n.Bundle {
	b := c.resolver.Resolve(ctx, k.lang, k.namespace, c.fallback)
	if b == nil {
		b = i18n.EmptyBundle()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != st.epoch || c.gens[k.lang] != st.gen {
		c.logger.DebugContext(ctx, "discarding stale bundle",
			slog.String("lang", k.lang),
			slog.String("namespace", k.namespace),
		)
		return b
	}
	c.entries[k] = b

	if b.Missing() {
		c.logger.DebugContext(ctx, "caching missing bundle",
			slog.String("lang", k.lang),
			slog.String("namespace", k.namespace),
		)
	}

	return b
}

// Invalidate drops every entry of lang. Resolutions for lang that are
// still in flight will not populate the cache.
func (c *Cache) Invalidate(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[lang]++
	for k := range c.entries {
		if k.lang == lang {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll drops every entry. Resolutions in flight will not populate
// the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	clear(c.entries)
}

// Preload resolves the given namespaces of lang concurrently and waits for
// them. It returns the context error if ctx ended first.
func (c *Cache) Preload(ctx context.Context, lang string, namespaces ...string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.preloadLimit)

	for _, ns := range namespaces {
		g.Go(func() error {
			c.Get(gctx, lang, ns)
			return nil
		})
	}
	_ = g.Wait()

	return ctx.Err()
}

// Len returns the number of cached entries, including memoized misses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func flightKey(k key, st stamp) string {
	return k.lang + "\x00" + k.namespace + "\x00" +
		strconv.FormatUint(st.epoch, 10) + "." + strconv.FormatUint(st.gen, 10)
}
