package source

import (
	"context"
	"regexp"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// Fetcher retrieves the bundle for one exact (language, namespace) pair.
// Implementations must not retry or fall back to other languages.
type Fetcher interface {
	Fetch(ctx context.Context, lang, namespace string) (*i18n.Bundle, error)
}

// Func adapts a plain function to the Fetcher interface.
type Func func(ctx context.Context, lang, namespace string) (*i18n.Bundle, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
	return f(ctx, lang, namespace)
}

// Key identifies a resource by language and namespace.
type Key struct {
	Lang      string
	Namespace string
}

// Locator resolves a (language, namespace) pair to a resource path.
// It returns false when no resource is known for the pair.
type Locator func(lang, namespace string) (string, bool)

// Manifest is an explicit lookup table from pair to resource path.
type Manifest map[Key]string

// Locate implements Locator.
func (m Manifest) Locate(lang, namespace string) (string, bool) {
	p, ok := m[Key{Lang: lang, Namespace: namespace}]
	return p, ok
}

// identRe restricts Layout to identifiers that cannot escape the layout root.
var identRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-]*$`)

// Layout returns a Locator for the {lang}/{namespace}{ext} layout.
// Pairs whose language or namespace is not a plain identifier are rejected.
func Layout(ext string) Locator {
	return func(lang, namespace string) (string, bool) {
		if !identRe.MatchString(lang) || !identRe.MatchString(namespace) {
			return "", false
		}
		return lang + "/" + namespace + ext, true
	}
}

// Map serves bundles from in-memory documents: language -> namespace -> document.
// Each fetch returns a freshly built bundle.
type Map map[string]map[string]map[string]any

// Fetch implements Fetcher.
func (m Map) Fetch(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, Transport(lang, namespace, err)
	}
	doc, ok := m[lang][namespace]
	if !ok {
		return nil, NotFound(lang, namespace, nil)
	}
	return i18n.NewBundle(doc), nil
}

var (
	_ Fetcher = Func(nil)
	_ Fetcher = Map(nil)
)
