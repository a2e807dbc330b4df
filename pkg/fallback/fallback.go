// Package fallback resolves bundles with a single hop to a fallback language.
//
// A Resolver asks its fetcher for the requested language first. When that
// fails for any reason it asks once more for the fallback language, and when
// that fails too it returns the empty-bundle sentinel. Errors never escape:
// callers always get a bundle to render with.
//
//	r := fallback.New(fetcher, fallback.WithLogger(log))
//	b := r.Resolve(ctx, "fr", "dashboard", "en")
//	if b.Missing() {
//	    // neither fr nor en had a dashboard bundle
//	}
package fallback

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
	"github.com/dmitrymomot/polyglot/pkg/source"
)

// Resolver wraps a fetcher with one-hop fallback.
type Resolver struct {
	fetcher source.Fetcher
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for fetch failures.
// Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver around fetcher.
func New(fetcher source.Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher: fetcher,
		logger:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the bundle for (lang, namespace). On failure it tries
// (fallbackLang, namespace) exactly once, unless lang already equals
// fallbackLang. When no bundle could be loaded it returns i18n.EmptyBundle().
func (r *Resolver) Resolve(ctx context.Context, lang, namespace, fallbackLang string) *i18n.Bundle {
	b, err := r.fetch(ctx, lang, namespace)
	if err == nil {
		return b
	}
	r.logFailure(ctx, err, lang, namespace, fallbackLang)

	if lang == fallbackLang || fallbackLang == "" {
		return i18n.EmptyBundle()
	}

	b, err = r.fetch(ctx, fallbackLang, namespace)
	if err == nil {
		return b
	}
	r.logFailure(ctx, err, fallbackLang, namespace, fallbackLang)

	return i18n.EmptyBundle()
}

func (r *Resolver) fetch(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
	b, err := r.fetcher.Fetch(ctx, lang, namespace)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, source.Transport(lang, namespace, errors.New("fetcher returned no bundle"))
	}
	return b, nil
}

func (r *Resolver) logFailure(ctx context.Context, err error, lang, namespace, fallbackLang string) {
	attrs := []any{
		slog.String("lang", lang),
		slog.String("namespace", namespace),
		slog.String("fallback", fallbackLang),
	}

	if errors.Is(err, source.ErrNotFound) {
		r.logger.DebugContext(ctx, "bundle not found", attrs...)
		return
	}
	r.logger.WarnContext(ctx, "bundle fetch failed", append(attrs, slog.String("error", err.Error()))...)
}
