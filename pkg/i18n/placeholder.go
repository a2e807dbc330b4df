package i18n

import (
	"fmt"
	"maps"
	"regexp"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// M is a map of placeholder values.
type M = map[string]any

// Layouts used by the date, time and datetime directives.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

// placeholderRe matches {{name}} and {{name, directive}}.
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*(?:,\s*([a-z]+)\s*)?\}\}`)

// Interpolate replaces placeholders in template with values from the given
// maps; later maps override earlier ones. Unknown placeholders are left as is.
// lang selects casing rules for the upper, lower and title directives and
// separators for the number and percent directives; it may be empty.
//
// Example:
//
//	Interpolate("en", "Hi {{name, title}}, you have {{count}} messages.",
//	    M{"name": "john smith", "count": 5})
//	// "Hi John Smith, you have 5 messages."
func Interpolate(lang, template string, values ...M) string {
	if len(values) == 0 {
		return template
	}

	merged := values[0]
	if len(values) > 1 {
		merged = make(M)
		for _, v := range values {
			maps.Copy(merged, v)
		}
	}
	if len(merged) == 0 {
		return template
	}

	tag := language.Und
	if lang != "" {
		tag = language.Make(lang)
	}

	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		sub := placeholderRe.FindStringSubmatch(match)
		value, ok := merged[sub[1]]
		if !ok {
			return match
		}
		return formatValue(tag, value, sub[2])
	})
}

// ReplacePlaceholders is Interpolate without language-specific casing.
func ReplacePlaceholders(template string, values M) string {
	return Interpolate("", template, values)
}

func formatValue(tag language.Tag, value any, directive string) string {
	switch directive {
	case "upper":
		return cases.Upper(tag).String(fmt.Sprint(value))
	case "lower":
		return cases.Lower(tag).String(fmt.Sprint(value))
	case "title":
		return cases.Title(tag).String(fmt.Sprint(value))
	case "date", "time", "datetime":
		if t, ok := value.(time.Time); ok {
			return t.Format(layoutFor(directive))
		}
	case "number":
		if isNumeric(value) {
			return message.NewPrinter(tag).Sprint(number.Decimal(value))
		}
	case "percent":
		if isNumeric(value) {
			return message.NewPrinter(tag).Sprint(number.Percent(value))
		}
	}
	return fmt.Sprint(value)
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func layoutFor(directive string) string {
	switch directive {
	case "time":
		return TimeLayout
	case "datetime":
		return DateTimeLayout
	default:
		return DateLayout
	}
}
