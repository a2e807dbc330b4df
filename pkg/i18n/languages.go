package i18n

import (
	"slices"
	"strings"
)

// DefaultLang is the language used when no default is configured.
const DefaultLang = "en"

// Languages is the fixed set of supported language codes.
// The default language is always a member and always listed first;
// the remaining codes are sorted. The zero value supports nothing.
type Languages struct {
	// canonical form -> code as configured
	index map[string]string
	list  []string
	def   string
}

// NewLanguages builds a supported set from a default language and any
// additional codes. Empty codes are skipped; duplicates collapse.
func NewLanguages(def string, others ...string) (Languages, error) {
	def = strings.TrimSpace(def)
	if def == "" {
		return Languages{}, ErrEmptyLanguage
	}

	l := Languages{
		index: map[string]string{canonical(def): def},
		list:  []string{def},
		def:   def,
	}

	rest := make([]string, 0, len(others))
	for _, code := range others {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		if _, ok := l.index[canonical(code)]; ok {
			continue
		}
		l.index[canonical(code)] = code
		rest = append(rest, code)
	}
	slices.Sort(rest)
	l.list = append(l.list, rest...)

	return l, nil
}

// MustLanguages is like NewLanguages but panics on error.
func MustLanguages(def string, others ...string) Languages {
	l, err := NewLanguages(def, others...)
	if err != nil {
		panic(err)
	}
	return l
}

// Default returns the default language.
func (l Languages) Default() string {
	return l.def
}

// All returns the supported codes, default first.
func (l Languages) All() []string {
	return slices.Clone(l.list)
}

// Supports reports whether code is in the set.
// Comparison ignores case and treats '_' as '-'.
func (l Languages) Supports(code string) bool {
	_, ok := l.Lookup(code)
	return ok
}

// Lookup returns the configured spelling of code when it is supported.
func (l Languages) Lookup(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	v, ok := l.index[canonical(code)]
	return v, ok
}

// Match resolves code against the set: an exact match wins, otherwise the
// base language ("fr" for "fr-CA") is tried.
func (l Languages) Match(code string) (string, bool) {
	if v, ok := l.Lookup(code); ok {
		return v, true
	}
	if base := BaseLanguage(canonical(code)); base != "" {
		return l.Lookup(base)
	}
	return "", false
}

// BaseLanguage strips the region from a language tag ("en-US" -> "en").
func BaseLanguage(code string) string {
	code = canonical(code)
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}

func canonical(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}
