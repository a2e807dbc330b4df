package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	languageKey ctxKey = iota
	namespaceKey
)

// WithLanguage stores the language a request is served in.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey, lang)
}

// LanguageFromContext returns the language stored by WithLanguage.
func LanguageFromContext(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(languageKey).(string)
	return lang, ok && lang != ""
}

// WithNamespace stores the bundle namespace being worked on.
func WithNamespace(ctx context.Context, namespace string) context.Context {
	return context.WithValue(ctx, namespaceKey, namespace)
}

// LanguageExtractor adds a "request_lang" attribute from WithLanguage.
func LanguageExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		lang, ok := LanguageFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("request_lang", lang), true
	}
}

// NamespaceExtractor adds a "request_namespace" attribute from WithNamespace.
func NamespaceExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		ns, ok := ctx.Value(namespaceKey).(string)
		if !ok || ns == "" {
			return slog.Attr{}, false
		}
		return slog.String("request_namespace", ns), true
	}
}
