package internal

import (
	"context"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// Translator is bound to one namespace of a Loader.
type Translator struct {
	loader    *Loader
	namespace string
}

// Translator returns a helper bound to namespace.
//
// Example:
//
//	t := loader.Translator("dashboard")
//	t.T(ctx, "greeting", i18n.M{"name": user.Name})
func (l *Loader) Translator(namespace string) *Translator {
	return &Translator{loader: l, namespace: namespace}
}

// T translates key in the active language.
func (t *Translator) T(ctx context.Context, key string, vars ...i18n.M) string {
	return t.loader.Translate(ctx, key, t.namespace, vars...)
}

// TIn translates key in lang.
func (t *Translator) TIn(ctx context.Context, lang, key string, vars ...i18n.M) string {
	return t.loader.TranslateIn(ctx, lang, key, t.namespace, vars...)
}

// Namespace returns the bound namespace.
func (t *Translator) Namespace() string {
	return t.namespace
}
