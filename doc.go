// Package polyglot loads translation bundles per (language, namespace) and
// tracks the active language of an application.
//
// Bundles are fetched lazily through a [source.Fetcher], cached per pair with
// single-flight loading, and resolved with exactly one fallback hop:
// a namespace missing in French is served from the fallback language, and
// a namespace missing everywhere yields an empty bundle. Translation never
// fails; an unknown key renders as the key itself.
//
// # Quick Start
//
//	loader, err := polyglot.New(ctx, source.NewFS(os.DirFS("locales"), nil),
//	    polyglot.WithDefaultLanguage("en"),
//	    polyglot.WithLanguages("fr", "de"),
//	    polyglot.WithNamespaces("common", "dashboard"),
//	)
//	if err != nil {
//	    return err
//	}
//	defer loader.Close()
//
//	loader.Translate(ctx, "greeting", "common", polyglot.M{"name": "Ann"})
//
// # Active Language
//
// The active language comes from the persisted choice, then from detectors
// (environment locale, Accept-Language), then from the default. Switching
// it persists the choice, drops cached bundles of the previous language and
// preloads the registered namespaces for the new one:
//
//	if err := loader.SetLanguage(ctx, "fr"); errors.Is(err, polyglot.ErrUnsupportedLanguage) {
//	    // nothing changed
//	}
//
// # Sources
//
// Package source provides fetchers for embedded or local files, HTTP and
// S3-compatible storage. Package kv provides memory, file and Redis
// persistence for the language choice. [LoadConfig] reads both from the
// environment for the polyglot command.
package polyglot
