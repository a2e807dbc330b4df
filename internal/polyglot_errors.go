package internal

import "errors"

var (
	// ErrNilFetcher is returned by New when no fetcher is given.
	ErrNilFetcher = errors.New("polyglot: nil fetcher")

	// ErrUnsupportedFallback is returned by New when the fallback language
	// is not in the supported set.
	ErrUnsupportedFallback = errors.New("polyglot: fallback language is not supported")

	// ErrClosed is returned by SetLanguage after Close.
	ErrClosed = errors.New("polyglot: loader closed")
)
