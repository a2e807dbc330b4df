package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength prevents DoS attacks through oversized Accept-Language headers.
const maxAcceptLanguageLength = 4096

// MatchAcceptLanguage returns the available language that best matches an
// Accept-Language header, honoring quality values and regional variants
// ("en-US" matches "en"). It reports false when the header names nothing
// that matches.
//
// Example header: "en-US,en;q=0.9,pl;q=0.8"
// Available: ["pl", "en", "de"]
// Returns: "en", true
func MatchAcceptLanguage(header string, available []string) (string, bool) {
	if header == "" || len(available) == 0 {
		return "", false
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
		if i := strings.LastIndexByte(header, ','); i > 0 {
			header = header[:i]
		}
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return "", false
	}

	supported := make([]language.Tag, 0, len(available))
	positions := make([]int, 0, len(available))
	for i, code := range available {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		positions = append(positions, i)
	}
	if len(supported) == 0 {
		return "", false
	}

	_, idx, confidence := language.NewMatcher(supported).Match(desired...)
	if confidence == language.No {
		return "", false
	}

	return available[positions[idx]], true
}

// ParseAcceptLanguage is like MatchAcceptLanguage but returns the first
// available language when nothing matches, and "" when none are available.
func ParseAcceptLanguage(header string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	if lang, ok := MatchAcceptLanguage(header, available); ok {
		return lang
	}
	return available[0]
}
