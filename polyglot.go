package polyglot

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/kv"
	"github.com/dmitrymomot/polyglot/pkg/langpref"
	"github.com/dmitrymomot/polyglot/pkg/source"
)

// Type aliases - public API
type (
	// Loader composes language preference, bundle cache and fallback
	// resolution behind Translate.
	Loader = internal.Loader

	// Translator is a Loader bound to one namespace.
	Translator = internal.Translator

	// Option configures a Loader.
	Option = internal.Option

	// MissingKeyHandler is called for keys absent from their bundle.
	MissingKeyHandler = internal.MissingKeyHandler

	// Change describes a switch of the active language.
	Change = langpref.Change

	// Detector infers a preferred language from the environment.
	Detector = langpref.Detector

	// Fetcher retrieves the bundle of one (language, namespace) pair.
	Fetcher = source.Fetcher

	// Bundle is an immutable set of translations.
	Bundle = i18n.Bundle

	// M holds placeholder values for Translate.
	M = i18n.M
)

// Errors
var (
	ErrNilFetcher          = internal.ErrNilFetcher
	ErrUnsupportedFallback = internal.ErrUnsupportedFallback
	ErrClosed              = internal.ErrClosed
	ErrUnsupportedLanguage = langpref.ErrUnsupportedLanguage
	ErrPersist             = langpref.ErrPersist
)

// New creates a Loader reading bundles through fetcher.
// The initial language is resolved immediately from persistence, detectors
// and the default, in that order.
//
// Example:
//
//	//go:embed locales
//	var locales embed.FS
//
//	sub, _ := fs.Sub(locales, "locales")
//	loader, err := polyglot.New(ctx, source.NewFS(sub, nil),
//	    polyglot.WithLanguages("fr", "de"),
//	    polyglot.WithPersistence(kv.NewFile("prefs.json")),
//	    polyglot.WithDetectors(langpref.EnvDetector()),
//	)
//	defer loader.Close()
//
//	loader.Translate(ctx, "title", "dashboard")
func New(ctx context.Context, fetcher Fetcher, opts ...Option) (*Loader, error) {
	return internal.New(ctx, fetcher, opts...)
}

// Loader options

// WithLanguages sets the supported languages besides the default.
func WithLanguages(codes ...string) Option {
	return internal.WithLanguages(codes...)
}

// WithDefaultLanguage sets the default language.
// Default: "en".
func WithDefaultLanguage(code string) Option {
	return internal.WithDefaultLanguage(code)
}

// WithFallbackLanguage sets the language tried once when a bundle is
// missing in the requested language.
// Default: the default language.
func WithFallbackLanguage(code string) Option {
	return internal.WithFallbackLanguage(code)
}

// WithPersistence sets where the explicit language choice is stored.
// Default: in-memory store.
func WithPersistence(store kv.Store) Option {
	return internal.WithPersistence(store)
}

// WithPreferenceKey sets the persistence key of the language choice.
// Default: "lang".
func WithPreferenceKey(key string) Option {
	return internal.WithPreferenceKey(key)
}

// WithDetectors sets the detectors consulted when no choice is persisted.
func WithDetectors(detectors ...Detector) Option {
	return internal.WithDetectors(detectors...)
}

// WithNamespaces registers namespaces to preload at startup and after every
// language change.
func WithNamespaces(namespaces ...string) Option {
	return internal.WithNamespaces(namespaces...)
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithMissingKeyHandler sets a hook for missing keys, e.g. to log them.
func WithMissingKeyHandler(h MissingKeyHandler) Option {
	return internal.WithMissingKeyHandler(h)
}

// WithPreloadConcurrency limits concurrent namespace preloads.
// Default: 4.
func WithPreloadConcurrency(n int) Option {
	return internal.WithPreloadConcurrency(n)
}
