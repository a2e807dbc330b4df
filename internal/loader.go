package internal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/polyglot/pkg/fallback"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/kv"
	"github.com/dmitrymomot/polyglot/pkg/langpref"
	"github.com/dmitrymomot/polyglot/pkg/logger"
	"github.com/dmitrymomot/polyglot/pkg/nscache"
	"github.com/dmitrymomot/polyglot/pkg/source"
)

// Loader composes the language store, the bundle cache and the fallback
// resolver behind a translate call.
type Loader struct {
	langs      i18n.Languages
	fallback   string
	store      *langpref.Store
	cache      *nscache.Cache
	logger     *slog.Logger
	namespaces []string
	onMissing  MissingKeyHandler

	unsubscribe func()

	// bgCtx scopes background preloads; cancel ends them on Close.
	bgCtx  context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// New creates a Loader that reads bundles through fetcher.
func New(ctx context.Context, fetcher source.Fetcher, opts ...Option) (*Loader, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}

	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.NewNope()
	}
	if cfg.persistence == nil {
		cfg.persistence = kv.NewMemory()
	}

	langs, err := i18n.NewLanguages(cfg.defaultLang, cfg.languages...)
	if err != nil {
		return nil, err
	}

	fb := langs.Default()
	if cfg.fallbackLang != "" {
		var ok bool
		if fb, ok = langs.Lookup(cfg.fallbackLang); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFallback, cfg.fallbackLang)
		}
	}

	store, err := langpref.New(ctx, cfg.persistence, langs,
		langpref.WithKey(cfg.prefKey),
		langpref.WithDetectors(cfg.detectors...),
		langpref.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	resolver := fallback.New(fetcher, fallback.WithLogger(cfg.logger))

	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l := &Loader{
		langs:    langs,
		fallback: fb,
		store:    store,
		cache: nscache.New(resolver, fb,
			nscache.WithLogger(cfg.logger),
			nscache.WithPreloadConcurrency(cfg.preloadLimit),
		),
		logger:     cfg.logger,
		namespaces: cfg.namespaces,
		onMissing:  cfg.onMissing,
		bgCtx:      bgCtx,
		cancel:     cancel,
	}
	l.unsubscribe = store.Subscribe(l.onLanguageChange)

	l.preloadInBackground(store.Active())

	return l, nil
}

// onLanguageChange drops the previous language's bundles and warms the
// registered namespaces for the new one.
func (l *Loader) onLanguageChange(c langpref.Change) {
	l.cache.Invalidate(c.Previous)
	l.preloadInBackground(c.Current)
}

func (l *Loader) preloadInBackground(lang string) {
	if len(l.namespaces) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.bg.Go(func() {
		ctx := logger.WithLanguage(l.bgCtx, lang)
		if err := l.cache.Preload(ctx, lang, l.namespaces...); err != nil {
			l.logger.DebugContext(ctx, "preload interrupted", slog.String("error", err.Error()))
			return
		}
		l.logger.DebugContext(ctx, "namespaces preloaded", slog.Int("count", len(l.namespaces)))
	})
}

// Translate returns the translation of key in the active language.
// A key absent from the bundle is returned as is.
func (l *Loader) Translate(ctx context.Context, key, namespace string, vars ...i18n.M) string {
	return l.TranslateIn(ctx, l.store.Active(), key, namespace, vars...)
}

// TranslateIn is like Translate for an explicit language. Unsupported
// codes resolve to their base language when supported, otherwise to the
// fallback language.
func (l *Loader) TranslateIn(ctx context.Context, lang, key, namespace string, vars ...i18n.M) string {
	lang = l.resolveLang(lang)

	v, ok := l.cache.Get(ctx, lang, namespace).Lookup(key)
	if !ok {
		if l.onMissing != nil {
			l.onMissing(ctx, lang, namespace, key)
		}
		return key
	}

	return i18n.Interpolate(lang, v, vars...)
}

// Bundle returns the namespace bundle of the active language.
func (l *Loader) Bundle(ctx context.Context, namespace string) *i18n.Bundle {
	return l.BundleIn(ctx, l.store.Active(), namespace)
}

// BundleIn returns the namespace bundle of lang.
func (l *Loader) BundleIn(ctx context.Context, lang, namespace string) *i18n.Bundle {
	return l.cache.Get(ctx, l.resolveLang(lang), namespace)
}

func (l *Loader) resolveLang(lang string) string {
	if code, ok := l.langs.Match(lang); ok {
		return code
	}
	return l.fallback
}

// ActiveLanguage returns the active language.
func (l *Loader) ActiveLanguage() string {
	return l.store.Active()
}

// SetLanguage switches the active language. It fails with
// langpref.ErrUnsupportedLanguage for codes outside the supported set.
func (l *Loader) SetLanguage(ctx context.Context, code string) error {
	if l.isClosed() {
		return ErrClosed
	}
	return l.store.Set(ctx, code)
}

// Subscribe registers fn for language changes. Subscribers added here run
// after the loader has invalidated the previous language.
func (l *Loader) Subscribe(fn func(langpref.Change)) (unsubscribe func()) {
	return l.store.Subscribe(fn)
}

// Languages returns the supported set.
func (l *Loader) Languages() i18n.Languages {
	return l.langs
}

// FallbackLanguage returns the language used when a bundle is missing.
func (l *Loader) FallbackLanguage() string {
	return l.fallback
}

// Preload resolves the registered namespaces for the active language and
// waits for them.
func (l *Loader) Preload(ctx context.Context) error {
	return l.cache.Preload(ctx, l.store.Active(), l.namespaces...)
}

// Refresh drops every cached bundle, e.g. after translations were deployed.
func (l *Loader) Refresh() {
	l.cache.InvalidateAll()
}

// Close stops reacting to language changes and waits for background
// preloads to finish. It is safe to call more than once.
func (l *Loader) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.unsubscribe()
	l.cancel()
	l.bg.Wait()
	return nil
}

func (l *Loader) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
