package i18n_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func TestParseAcceptLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		available []string
		expected  string
	}{
		{
			name:      "empty header returns first available",
			header:    "",
			available: []string{"en", "pl", "de"},
			expected:  "en",
		},
		{
			name:      "empty available returns empty",
			header:    "en-US,en;q=0.9",
			available: []string{},
			expected:  "",
		},
		{
			name:      "exact match",
			header:    "pl",
			available: []string{"en", "pl", "de"},
			expected:  "pl",
		},
		{
			name:      "match with quality values",
			header:    "de;q=0.5,pl;q=0.9,en;q=0.8",
			available: []string{"en", "pl", "de"},
			expected:  "pl",
		},
		{
			name:      "language with region matches base",
			header:    "en-US",
			available: []string{"en", "pl", "de"},
			expected:  "en",
		},
		{
			name:      "unsupported first choice falls through to next",
			header:    "fr,en-US;q=0.9,en;q=0.8,pl;q=0.7",
			available: []string{"pl", "en"},
			expected:  "en",
		},
		{
			name:      "no match returns first available",
			header:    "fr,es,it",
			available: []string{"en", "pl", "de"},
			expected:  "en",
		},
		{
			name:      "case insensitive matching",
			header:    "EN-us,PL;q=0.9",
			available: []string{"pl", "en"},
			expected:  "en",
		},
		{
			name:      "oversized header is truncated safely",
			header:    strings.Repeat("en,", 2000) + "pl",
			available: []string{"en", "pl", "de"},
			expected:  "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := i18n.ParseAcceptLanguage(tt.header, tt.available)
			require.Equal(t, tt.expected, result)
		})
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	t.Parallel()

	t.Run("reports match", func(t *testing.T) {
		t.Parallel()
		lang, ok := i18n.MatchAcceptLanguage("fr-CA,fr;q=0.9,en;q=0.8", []string{"en", "fr"})
		require.True(t, ok)
		require.Equal(t, "fr", lang)
	})

	t.Run("reports miss for unsupported languages", func(t *testing.T) {
		t.Parallel()
		lang, ok := i18n.MatchAcceptLanguage("de", []string{"en", "fr"})
		require.False(t, ok)
		require.Empty(t, lang)
	})

	t.Run("reports miss for empty header", func(t *testing.T) {
		t.Parallel()
		_, ok := i18n.MatchAcceptLanguage("", []string{"en"})
		require.False(t, ok)
	})

	t.Run("skips malformed available codes", func(t *testing.T) {
		t.Parallel()
		lang, ok := i18n.MatchAcceptLanguage("fr", []string{"not a tag!", "fr"})
		require.True(t, ok)
		require.Equal(t, "fr", lang)
	})
}
