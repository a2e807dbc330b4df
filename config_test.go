package polyglot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot"
	"github.com/dmitrymomot/polyglot/pkg/source"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := polyglot.LoadConfig()
		require.NoError(t, err)

		require.Equal(t, "en", cfg.DefaultLanguage)
		require.Equal(t, "lang", cfg.PreferenceKey)
		require.Equal(t, polyglot.SourceFS, cfg.Source.Kind)
		require.Equal(t, "locales", cfg.Source.Dir)
		require.Equal(t, 10*time.Second, cfg.Source.Timeout)
		require.Equal(t, polyglot.PersistenceMemory, cfg.Persistence.Kind)
		require.Equal(t, ":8080", cfg.HTTP.Addr)
		require.Equal(t, "info", cfg.Log.Level)
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("POLYGLOT_LANGUAGES", "fr,de")
		t.Setenv("POLYGLOT_NAMESPACES", "common,dashboard")
		t.Setenv("POLYGLOT_SOURCE_KIND", "s3")
		t.Setenv("POLYGLOT_SOURCE_S3_BUCKET", "translations")
		t.Setenv("POLYGLOT_PERSISTENCE_KIND", "redis")
		t.Setenv("POLYGLOT_PERSISTENCE_REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("POLYGLOT_HTTP_ADDR", ":9090")
		t.Setenv("LOG_FORMAT", "text")

		cfg, err := polyglot.LoadConfig()
		require.NoError(t, err)

		require.Equal(t, []string{"fr", "de"}, cfg.Languages)
		require.Equal(t, []string{"common", "dashboard"}, cfg.Namespaces)
		require.Equal(t, "translations", cfg.Source.S3.Bucket)
		require.Equal(t, "redis://localhost:6379/0", cfg.Persistence.RedisURL)
		require.Equal(t, ":9090", cfg.HTTP.Addr)
		require.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("unknown source kind", func(t *testing.T) {
		t.Setenv("POLYGLOT_SOURCE_KIND", "ftp")

		_, err := polyglot.LoadConfig()
		require.ErrorIs(t, err, polyglot.ErrInvalidConfig)
	})

	t.Run("http source needs url", func(t *testing.T) {
		t.Setenv("POLYGLOT_SOURCE_KIND", "http")

		_, err := polyglot.LoadConfig()
		require.ErrorIs(t, err, polyglot.ErrInvalidConfig)
	})

	t.Run("redis persistence needs url", func(t *testing.T) {
		t.Setenv("POLYGLOT_PERSISTENCE_KIND", "redis")

		_, err := polyglot.LoadConfig()
		require.ErrorIs(t, err, polyglot.ErrInvalidConfig)
	})
}

func TestSourceConfig_NewFetcher(t *testing.T) {
	t.Parallel()

	t.Run("fs with metrics", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "en"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "en", "common.yaml"), []byte("save: Save\n"), 0o600))

		reg := prometheus.NewRegistry()
		f, err := polyglot.SourceConfig{Kind: polyglot.SourceFS, Dir: dir, RetryAttempts: 2}.NewFetcher(reg)
		require.NoError(t, err)

		b, err := f.Fetch(context.Background(), "en", "common")
		require.NoError(t, err)
		v, _ := b.Lookup("save")
		require.Equal(t, "Save", v)

		_, err = f.Fetch(context.Background(), "fr", "common")
		require.ErrorIs(t, err, source.ErrNotFound)

		count, err := testutil.GatherAndCount(reg, "polyglot_source_fetches_total")
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("http", func(t *testing.T) {
		t.Parallel()

		f, err := polyglot.SourceConfig{Kind: polyglot.SourceHTTP, URL: "https://cdn.example.com/locales", Ext: ".json", Token: "t"}.NewFetcher(nil)
		require.NoError(t, err)
		require.NotNil(t, f)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		_, err := polyglot.SourceConfig{Kind: "ftp"}.NewFetcher(nil)
		require.ErrorIs(t, err, polyglot.ErrInvalidConfig)
	})
}

func TestPersistenceConfig_Open(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		p, err := polyglot.PersistenceConfig{Kind: polyglot.PersistenceMemory}.Open(ctx)
		require.NoError(t, err)
		require.Nil(t, p.Healthcheck)
		require.NoError(t, p.Store.Set(ctx, "lang", "fr"))
		require.NoError(t, p.Close(ctx))
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "prefs.json")
		p, err := polyglot.PersistenceConfig{Kind: polyglot.PersistenceFile, File: path}.Open(ctx)
		require.NoError(t, err)
		require.NoError(t, p.Store.Set(ctx, "lang", "fr"))

		_, err = os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()

		_, err := polyglot.PersistenceConfig{Kind: "etcd"}.Open(ctx)
		require.ErrorIs(t, err, polyglot.ErrInvalidConfig)
	})
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	cfg := polyglot.Config{
		DefaultLanguage:  "en",
		Languages:        []string{"fr"},
		FallbackLanguage: "en",
		PreferenceKey:    "lang",
	}

	l, err := polyglot.New(context.Background(), testData(), cfg.Options(nil, nil)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	require.Equal(t, "en", l.ActiveLanguage())
	require.Equal(t, "en", l.FallbackLanguage())
	require.Equal(t, []string{"en", "fr"}, l.Languages().All())
}
