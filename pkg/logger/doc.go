// Package logger builds the slog loggers used across polyglot.
//
// [New] writes JSON (or text) records to stdout at the configured level and,
// when a Sentry DSN is present, forwards warnings and errors to Sentry as well.
// Without a DSN it quietly logs to stdout only, so the same configuration path
// works locally and in production.
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//	    logger.LanguageExtractor(),
//	)
//	ctx := logger.WithLanguage(ctx, "fr")
//	log.InfoContext(ctx, "bundle served", slog.String("namespace", "dashboard"))
//	// level=INFO msg="bundle served" namespace=dashboard request_lang=fr
//
// # Context extractors
//
// A [ContextExtractor] pulls one attribute out of a context. [LogHandlerDecorator]
// runs the extractors on every record, so request-scoped values such as the
// served language show up without threading them through each call.
//
// Libraries in this module default to [NewNope] and accept a logger through
// their WithLogger options.
package logger
