package langpref

import (
	"context"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// Detector infers a preferred language from the environment.
// It returns false when it has no opinion.
type Detector interface {
	Detect(ctx context.Context) (string, bool)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context) (string, bool)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context) (string, bool) {
	return f(ctx)
}

// StaticDetector always reports code.
func StaticDetector(code string) Detector {
	return DetectorFunc(func(context.Context) (string, bool) {
		return code, code != ""
	})
}

// envVars are read in GNU gettext priority order.
var envVars = []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"}

// EnvDetector reads the locale from LANGUAGE, LC_ALL, LC_MESSAGES and LANG.
// Encodings and modifiers are stripped ("pt_BR.UTF-8@euro" -> "pt-BR");
// the C and POSIX locales are skipped.
func EnvDetector() Detector {
	return envDetector(os.LookupEnv)
}

func envDetector(lookup func(string) (string, bool)) Detector {
	return DetectorFunc(func(context.Context) (string, bool) {
		for _, name := range envVars {
			val, ok := lookup(name)
			if !ok {
				continue
			}
			// LANGUAGE is a colon-separated priority list.
			if name == "LANGUAGE" {
				val, _, _ = strings.Cut(val, ":")
			}
			if code := parseLocale(val); code != "" {
				return code, true
			}
		}
		return "", false
	})
}

func parseLocale(val string) string {
	val = strings.TrimSpace(val)
	if i := strings.IndexAny(val, ".@"); i >= 0 {
		val = val[:i]
	}
	if val == "" || val == "C" || val == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(val, "_", "-")
}

// SetMatcher is implemented by detectors that can choose among the
// supported languages themselves. The Store prefers it over Detect.
type SetMatcher interface {
	DetectIn(ctx context.Context, langs i18n.Languages) (string, bool)
}

// AcceptLanguageDetector picks a code from an HTTP Accept-Language header.
// Quality values are honored: with the supported set known, the best
// supported candidate wins even when it is not the most preferred tag.
func AcceptLanguageDetector(header string) Detector {
	return acceptLanguage(header)
}

type acceptLanguage string

// Detect returns the most preferred tag of the header.
func (h acceptLanguage) Detect(context.Context) (string, bool) {
	tags, _, err := language.ParseAcceptLanguage(string(h))
	if err != nil || len(tags) == 0 {
		return "", false
	}
	return tags[0].String(), true
}

// DetectIn returns the best supported match for the header.
func (h acceptLanguage) DetectIn(_ context.Context, langs i18n.Languages) (string, bool) {
	return i18n.MatchAcceptLanguage(string(h), langs.All())
}
