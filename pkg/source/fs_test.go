package source_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/source"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"en/dashboard.json": {Data: []byte(`{"title": "Dashboard"}`)},
		"en/errors.yaml":    {Data: []byte("required: This field is required\n")},
		"fr/dashboard.toml": {Data: []byte("title = \"Tableau de bord\"\n")},
		"fr/broken.json":    {Data: []byte(`{"title": `)},
		"de/notes.txt":      {Data: []byte("ignored")},
	}
}

func TestFS_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("default layout", func(t *testing.T) {
		t.Parallel()

		src := source.NewFS(testFS(), nil)
		b, err := src.Fetch(context.Background(), "en", "dashboard")
		require.NoError(t, err)

		v, ok := b.Lookup("title")
		require.True(t, ok)
		require.Equal(t, "Dashboard", v)
	})

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		src := source.NewFS(testFS(), nil)
		_, err := src.Fetch(context.Background(), "fr", "settings")
		require.ErrorIs(t, err, source.ErrNotFound)
	})

	t.Run("rejected identifier is not found", func(t *testing.T) {
		t.Parallel()

		src := source.NewFS(testFS(), nil)
		_, err := src.Fetch(context.Background(), "en", "../en/dashboard")
		require.ErrorIs(t, err, source.ErrNotFound)
	})

	t.Run("malformed document is transport error", func(t *testing.T) {
		t.Parallel()

		src := source.NewFS(testFS(), nil)
		_, err := src.Fetch(context.Background(), "fr", "broken")
		require.ErrorIs(t, err, source.ErrTransport)
	})

	t.Run("unknown extension is transport error", func(t *testing.T) {
		t.Parallel()

		src := source.NewFS(testFS(), source.Layout(".txt"))
		_, err := src.Fetch(context.Background(), "de", "notes")
		require.ErrorIs(t, err, source.ErrTransport)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		src := source.NewFS(testFS(), nil)
		_, err := src.Fetch(ctx, "en", "dashboard")
		require.ErrorIs(t, err, source.ErrTransport)
	})
}

func TestScanFS(t *testing.T) {
	t.Parallel()

	t.Run("mixed formats", func(t *testing.T) {
		t.Parallel()

		m, err := source.ScanFS(testFS())
		require.NoError(t, err)
		require.Len(t, m, 4)
		require.Equal(t, "en/errors.yaml", m[source.Key{Lang: "en", Namespace: "errors"}])
		require.Equal(t, "fr/dashboard.toml", m[source.Key{Lang: "fr", Namespace: "dashboard"}])

		src := source.NewFS(testFS(), m.Locate)

		b, err := src.Fetch(context.Background(), "fr", "dashboard")
		require.NoError(t, err)
		v, _ := b.Lookup("title")
		require.Equal(t, "Tableau de bord", v)

		b, err = src.Fetch(context.Background(), "en", "errors")
		require.NoError(t, err)
		v, _ = b.Lookup("required")
		require.Equal(t, "This field is required", v)
	})

	t.Run("first file wins", func(t *testing.T) {
		t.Parallel()

		m, err := source.ScanFS(fstest.MapFS{
			"en/common.json": {Data: []byte(`{}`)},
			"en/common.yaml": {Data: []byte(``)},
		})
		require.NoError(t, err)
		require.Equal(t, "en/common.json", m[source.Key{Lang: "en", Namespace: "common"}])
	})

	t.Run("file at root", func(t *testing.T) {
		t.Parallel()

		_, err := source.ScanFS(fstest.MapFS{
			"common.json": {Data: []byte(`{}`)},
		})
		require.ErrorIs(t, err, i18n.ErrInvalidBundle)
	})

	t.Run("file nested below language directory", func(t *testing.T) {
		t.Parallel()

		_, err := source.ScanFS(fstest.MapFS{
			"en/common.json":      {Data: []byte(`{}`)},
			"en/admin/users.json": {Data: []byte(`{}`)},
		})
		require.ErrorIs(t, err, i18n.ErrInvalidBundle)
		require.Contains(t, err.Error(), "en/admin/users.json")
	})

	t.Run("nested non-bundle files are ignored", func(t *testing.T) {
		t.Parallel()

		m, err := source.ScanFS(fstest.MapFS{
			"en/common.json":      {Data: []byte(`{}`)},
			"en/assets/README.md": {Data: []byte("notes")},
		})
		require.NoError(t, err)
		require.Len(t, m, 1)
	})
}
