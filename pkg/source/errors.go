package source

import (
	"errors"
	"fmt"
)

// Sentinel errors for fetch failures.
var (
	// ErrNotFound is returned when no resource exists for the exact pair.
	ErrNotFound = errors.New("source: bundle not found")

	// ErrTransport is returned when the retrieval mechanism fails.
	ErrTransport = errors.New("source: transport error")
)

// Error describes a failed fetch.
type Error struct {
	// Kind is ErrNotFound or ErrTransport.
	Kind      error
	Err       error
	Lang      string
	Namespace string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (%s/%s)", e.Kind, e.Lang, e.Namespace)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds an ErrNotFound failure for the pair. cause may be nil.
func NotFound(lang, namespace string, cause error) error {
	return &Error{Kind: ErrNotFound, Lang: lang, Namespace: namespace, Err: cause}
}

// Transport builds an ErrTransport failure for the pair.
func Transport(lang, namespace string, cause error) error {
	return &Error{Kind: ErrTransport, Lang: lang, Namespace: namespace, Err: cause}
}

// Outcome classifies a fetch result as "ok", "not_found" or "transport_error".
// Errors that carry neither sentinel count as transport errors.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "transport_error"
	}
}
