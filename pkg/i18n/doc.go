// Package i18n holds the value types shared by every polyglot component:
// translation bundles, the supported language set, bundle decoding and the
// stateless interpolation utility.
//
// # Bundles
//
// A [Bundle] is the decoded content of one (language, namespace) resource.
// It is immutable after construction; nested groups are flattened so keys are
// looked up by dot path in O(1):
//
//	b := i18n.NewBundle(map[string]any{
//		"menu": map[string]any{"home": "Home"},
//	})
//	v, ok := b.Lookup("menu.home") // "Home", true
//
// [EmptyBundle] returns the shared sentinel that stands for "fetch attempted and
// failed even after fallback". Use [Bundle.Missing] to tell it apart from a
// bundle that loaded successfully but happens to contain no keys.
//
// # Languages
//
// [Languages] is the fixed set of supported language codes with its default:
//
//	langs, err := i18n.NewLanguages("en", "fr", "de")
//	langs.Supports("fr")    // true
//	langs.Match("fr-CA")    // "fr", true
//
// # Decoding
//
// [Decode] turns JSON, YAML or TOML documents into bundles. [FormatFromPath]
// picks the format from a file extension.
//
// # Interpolation
//
// [Interpolate] replaces {{name}} placeholders. A placeholder may carry a
// format directive after a comma: upper, lower, title, date, time, datetime.
// Case directives follow the rules of the given language:
//
//	i18n.Interpolate("en", "Hello, {{name, upper}}!", i18n.M{"name": "ann"})
//	// "Hello, ANN!"
//
// # Accept-Language
//
// [MatchAcceptLanguage] and [ParseAcceptLanguage] pick the best supported
// language for an HTTP Accept-Language header using golang.org/x/text/language.
package i18n
