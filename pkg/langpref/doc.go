// Package langpref owns the active language of an application.
//
// A [Store] resolves the initial language once, at construction, from the
// first source that yields a supported code:
//
//  1. the value persisted under the preference key
//  2. the configured detectors, in order (environment, Accept-Language, ...)
//  3. the default language of the supported set
//
// A persisted value that is no longer supported is removed. Detected values
// are never persisted; only an explicit [Store.Set] writes to persistence.
//
//	langs := i18n.MustLanguages("en", "fr", "de")
//	store, err := langpref.New(ctx, kv.NewFile("prefs.json"), langs,
//	    langpref.WithDetectors(langpref.EnvDetector()),
//	)
//
//	unsubscribe := store.Subscribe(func(c langpref.Change) {
//	    log.Info("language changed", "from", c.Previous, "to", c.Current)
//	})
//	defer unsubscribe()
//
//	if err := store.Set(ctx, "fr"); errors.Is(err, langpref.ErrUnsupportedLanguage) {
//	    // rejected; nothing changed
//	}
//
// Set persists synchronously before it updates memory, so the in-memory value
// and the persisted value never disagree after Set returns.
package langpref
