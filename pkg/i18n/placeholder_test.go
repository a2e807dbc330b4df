package i18n_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func TestReplacePlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		template     string
		placeholders i18n.M
		expected     string
	}{
		{
			name:         "no placeholders",
			template:     "Hello, World!",
			placeholders: nil,
			expected:     "Hello, World!",
		},
		{
			name:         "single placeholder",
			template:     "Hello, {{name}}!",
			placeholders: i18n.M{"name": "John"},
			expected:     "Hello, John!",
		},
		{
			name:         "multiple placeholders",
			template:     "Welcome, {{name}}! You have {{count}} messages.",
			placeholders: i18n.M{"name": "Alice", "count": 5},
			expected:     "Welcome, Alice! You have 5 messages.",
		},
		{
			name:         "missing placeholder remains unchanged",
			template:     "Hello, {{name}}! Your ID is {{id}}.",
			placeholders: i18n.M{"name": "Bob"},
			expected:     "Hello, Bob! Your ID is {{id}}.",
		},
		{
			name:         "float values",
			template:     "Your balance is ${{amount}}.",
			placeholders: i18n.M{"amount": 123.45},
			expected:     "Your balance is $123.45.",
		},
		{
			name:         "repeated placeholders",
			template:     "{{name}} is here. Hello, {{name}}!",
			placeholders: i18n.M{"name": "Charlie"},
			expected:     "Charlie is here. Hello, Charlie!",
		},
		{
			name:         "whitespace inside braces",
			template:     "Hello, {{ name }}!",
			placeholders: i18n.M{"name": "Eve"},
			expected:     "Hello, Eve!",
		},
		{
			name:         "empty placeholder map",
			template:     "Hello, {{name}}!",
			placeholders: i18n.M{},
			expected:     "Hello, {{name}}!",
		},
		{
			name:         "upper directive",
			template:     "{{code, upper}}",
			placeholders: i18n.M{"code": "abc"},
			expected:     "ABC",
		},
		{
			name:         "lower directive",
			template:     "{{code, lower}}",
			placeholders: i18n.M{"code": "ABC"},
			expected:     "abc",
		},
		{
			name:         "title directive",
			template:     "Hi {{name, title}}",
			placeholders: i18n.M{"name": "john smith"},
			expected:     "Hi John Smith",
		},
		{
			name:         "unknown directive prints value",
			template:     "{{n, fancy}}",
			placeholders: i18n.M{"n": 7},
			expected:     "7",
		},
		{
			name:         "date directive ignores non-time values",
			template:     "{{when, date}}",
			placeholders: i18n.M{"when": "tomorrow"},
			expected:     "tomorrow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := i18n.ReplacePlaceholders(tt.template, tt.placeholders)
			require.Equal(t, tt.expected, result)
		})
	}
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	when := time.Date(2026, time.March, 4, 9, 30, 0, 0, time.UTC)

	t.Run("formats time values", func(t *testing.T) {
		t.Parallel()
		got := i18n.Interpolate("en", "{{when, date}} {{when, time}} / {{when, datetime}}", i18n.M{"when": when})
		require.Equal(t, "2026-03-04 09:30 / 2026-03-04 09:30", got)
	})

	t.Run("later maps override earlier ones", func(t *testing.T) {
		t.Parallel()
		got := i18n.Interpolate("en", "{{a}}{{b}}", i18n.M{"a": "1", "b": "2"}, i18n.M{"b": "3"})
		require.Equal(t, "13", got)
	})

	t.Run("uses language casing rules", func(t *testing.T) {
		t.Parallel()
		got := i18n.Interpolate("tr", "{{city, upper}}", i18n.M{"city": "istanbul"})
		require.Equal(t, "İSTANBUL", got)
	})

	t.Run("formats numbers for the language", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "1,234.5", i18n.Interpolate("en", "{{n, number}}", i18n.M{"n": 1234.5}))
		require.Equal(t, "1.234,5", i18n.Interpolate("de", "{{n, number}}", i18n.M{"n": 1234.5}))
		require.Equal(t, "25%", i18n.Interpolate("en", "{{r, percent}}", i18n.M{"r": 0.25}))
	})

	t.Run("number directive ignores non-numeric values", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "many", i18n.Interpolate("en", "{{n, number}}", i18n.M{"n": "many"}))
	})

	t.Run("no values returns template", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "{{x}}", i18n.Interpolate("en", "{{x}}"))
	})
}
