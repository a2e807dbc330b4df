package internal

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/kv"
	"github.com/dmitrymomot/polyglot/pkg/langpref"
)

// MissingKeyHandler is called when a key is absent from the resolved bundle.
type MissingKeyHandler func(ctx context.Context, lang, namespace, key string)

// Option configures the loader.
type Option func(*loaderConfig)

type loaderConfig struct {
	defaultLang  string
	languages    []string
	fallbackLang string
	persistence  kv.Store
	prefKey      string
	detectors    []langpref.Detector
	namespaces   []string
	logger       *slog.Logger
	onMissing    MissingKeyHandler
	preloadLimit int
}

func defaultLoaderConfig() *loaderConfig {
	return &loaderConfig{
		defaultLang:  i18n.DefaultLang,
		prefKey:      langpref.DefaultKey,
		preloadLimit: 4,
	}
}

// WithLanguages sets the supported languages besides the default.
func WithLanguages(codes ...string) Option {
	return func(c *loaderConfig) {
		c.languages = append(c.languages, codes...)
	}
}

// WithDefaultLanguage sets the default language.
// Default: "en".
func WithDefaultLanguage(code string) Option {
	return func(c *loaderConfig) {
		c.defaultLang = code
	}
}

// WithFallbackLanguage sets the language tried once when a bundle is
// missing in the requested language. It must be supported.
// Default: the default language.
func WithFallbackLanguage(code string) Option {
	return func(c *loaderConfig) {
		c.fallbackLang = code
	}
}

// WithPersistence sets where the explicit language choice is stored.
// Default: in-memory store.
func WithPersistence(store kv.Store) Option {
	return func(c *loaderConfig) {
		if store != nil {
			c.persistence = store
		}
	}
}

// WithPreferenceKey sets the persistence key of the language choice.
// Default: "lang".
func WithPreferenceKey(key string) Option {
	return func(c *loaderConfig) {
		c.prefKey = key
	}
}

// WithDetectors sets the detectors used when no choice is persisted.
func WithDetectors(detectors ...langpref.Detector) Option {
	return func(c *loaderConfig) {
		c.detectors = append(c.detectors, detectors...)
	}
}

// WithNamespaces registers namespaces that are preloaded at startup and
// after every language change.
func WithNamespaces(namespaces ...string) Option {
	return func(c *loaderConfig) {
		c.namespaces = append(c.namespaces, namespaces...)
	}
}

// WithLogger sets the logger shared by all components.
// Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *loaderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMissingKeyHandler sets a hook for keys absent from their bundle.
func WithMissingKeyHandler(h MissingKeyHandler) Option {
	return func(c *loaderConfig) {
		c.onMissing = h
	}
}

// WithPreloadConcurrency limits concurrent namespace preloads.
// Default: 4.
func WithPreloadConcurrency(n int) Option {
	return func(c *loaderConfig) {
		if n > 0 {
			c.preloadLimit = n
		}
	}
}
