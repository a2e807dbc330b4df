package langpref

import "errors"

var (
	// ErrUnsupportedLanguage is returned by Set for codes outside the supported set.
	ErrUnsupportedLanguage = errors.New("langpref: unsupported language")

	// ErrPersist is returned by Set when the choice could not be stored.
	ErrPersist = errors.New("langpref: failed to persist language")

	// ErrEmptyKey is returned by New when the preference key is empty.
	ErrEmptyKey = errors.New("langpref: empty preference key")

	// ErrNoLanguages is returned by New when the supported set is empty.
	ErrNoLanguages = errors.New("langpref: no supported languages")
)
