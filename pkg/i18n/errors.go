package i18n

import "errors"

var (
	ErrEmptyLanguage     = errors.New("i18n: language cannot be empty")
	ErrInvalidBundle     = errors.New("i18n: invalid bundle document")
	ErrUnsupportedFormat = errors.New("i18n: unsupported bundle format")
)
