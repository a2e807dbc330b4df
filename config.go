package polyglot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/polyglot/pkg/kv"
	"github.com/dmitrymomot/polyglot/pkg/langpref"
	"github.com/dmitrymomot/polyglot/pkg/logger"
	"github.com/dmitrymomot/polyglot/pkg/source"
)

// Source kinds.
const (
	SourceFS   = "fs"
	SourceHTTP = "http"
	SourceS3   = "s3"
)

// Persistence kinds.
const (
	PersistenceMemory = "memory"
	PersistenceFile   = "file"
	PersistenceRedis  = "redis"
)

// ErrInvalidConfig is returned by LoadConfig for inconsistent settings.
var ErrInvalidConfig = errors.New("polyglot: invalid configuration")

// Config is the process configuration read from the environment.
type Config struct {
	DefaultLanguage  string   `env:"POLYGLOT_DEFAULT_LANGUAGE" envDefault:"en"`
	Languages        []string `env:"POLYGLOT_LANGUAGES"`
	FallbackLanguage string   `env:"POLYGLOT_FALLBACK_LANGUAGE"`
	Namespaces       []string `env:"POLYGLOT_NAMESPACES"`
	PreferenceKey    string   `env:"POLYGLOT_PREFERENCE_KEY" envDefault:"lang"`
	DetectEnv        bool     `env:"POLYGLOT_DETECT_ENV" envDefault:"true"`

	Source      SourceConfig      `envPrefix:"POLYGLOT_SOURCE_"`
	Persistence PersistenceConfig `envPrefix:"POLYGLOT_PERSISTENCE_"`
	HTTP        HTTPConfig        `envPrefix:"POLYGLOT_HTTP_"`
	Log         logger.Config
}

// SourceConfig selects and configures the bundle source.
type SourceConfig struct {
	Kind string `env:"KIND" envDefault:"fs"`

	// Dir is the locales directory for the fs source, laid out as
	// {lang}/{namespace}.{json,yaml,yml,toml}.
	Dir string `env:"DIR" envDefault:"locales"`

	// Ext is the file extension used by the http and s3 sources.
	Ext string `env:"EXT" envDefault:".json"`

	URL     string        `env:"URL"`
	Token   string        `env:"TOKEN"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	S3 source.S3Config

	// RetryAttempts above 1 retries transport failures against the same
	// language before falling back.
	RetryAttempts int           `env:"RETRY_ATTEMPTS" envDefault:"1"`
	RetryInterval time.Duration `env:"RETRY_INTERVAL" envDefault:"200ms"`
}

// PersistenceConfig selects where the language choice is stored.
type PersistenceConfig struct {
	Kind        string `env:"KIND" envDefault:"memory"`
	File        string `env:"FILE" envDefault:"polyglot.json"`
	RedisURL    string `env:"REDIS_URL"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"polyglot"`
}

// HTTPConfig configures the bundle API server.
type HTTPConfig struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// LoadConfig reads Config from the environment and validates it.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	switch c.Source.Kind {
	case SourceFS:
		if c.Source.Dir == "" {
			errs = append(errs, errors.New("POLYGLOT_SOURCE_DIR is required for the fs source"))
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			errs = append(errs, errors.New("POLYGLOT_SOURCE_URL is required for the http source"))
		}
	case SourceS3:
	default:
		errs = append(errs, fmt.Errorf("unknown source kind %q", c.Source.Kind))
	}

	switch c.Persistence.Kind {
	case PersistenceMemory, PersistenceFile:
	case PersistenceRedis:
		if c.Persistence.RedisURL == "" {
			errs = append(errs, errors.New("POLYGLOT_PERSISTENCE_REDIS_URL is required for redis persistence"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown persistence kind %q", c.Persistence.Kind))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// NewFetcher builds the configured source. When reg is not nil, fetches are
// recorded as Prometheus metrics.
func (c SourceConfig) NewFetcher(reg prometheus.Registerer) (source.Fetcher, error) {
	var (
		f   source.Fetcher
		err error
	)

	switch c.Kind {
	case SourceFS:
		fsys := os.DirFS(c.Dir)
		var manifest source.Manifest
		if manifest, err = source.ScanFS(fsys); err != nil {
			return nil, fmt.Errorf("polyglot: scanning %s: %w", c.Dir, err)
		}
		f = source.NewFS(fsys, manifest.Locate)
	case SourceHTTP:
		opts := []source.HTTPOption{
			source.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
		}
		if c.Token != "" {
			opts = append(opts, source.WithHeader("Authorization", "Bearer "+c.Token))
		}
		if f, err = source.NewHTTP(c.URL, source.Layout(c.Ext), opts...); err != nil {
			return nil, err
		}
	case SourceS3:
		if f, err = source.NewS3(c.S3, source.Layout(c.Ext)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Kind)
	}

	if c.RetryAttempts > 1 {
		f = source.Retry(f, c.RetryAttempts, c.RetryInterval)
	}
	if reg != nil {
		f = source.Instrument(f, c.Kind, source.NewMetrics(reg))
	}

	return f, nil
}

// Persistence is an opened preference store with its lifecycle hooks.
type Persistence struct {
	Store kv.Store

	// Healthcheck probes the backend; nil for local stores.
	Healthcheck func(context.Context) error

	// Close releases the backend.
	Close func(context.Context) error
}

// Open connects the configured persistence backend.
func (c PersistenceConfig) Open(ctx context.Context) (*Persistence, error) {
	noop := func(context.Context) error { return nil }

	switch c.Kind {
	case PersistenceMemory:
		return &Persistence{Store: kv.NewMemory(), Close: noop}, nil
	case PersistenceFile:
		return &Persistence{Store: kv.NewFile(c.File), Close: noop}, nil
	case PersistenceRedis:
		client, err := kv.Dial(ctx, c.RedisURL)
		if err != nil {
			return nil, err
		}
		return &Persistence{
			Store:       kv.NewRedis(client, kv.WithPrefix(c.RedisPrefix)),
			Healthcheck: kv.Healthcheck(client),
			Close:       kv.Shutdown(client),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown persistence kind %q", ErrInvalidConfig, c.Kind)
	}
}

// Options returns the loader options described by c.
func (c Config) Options(store kv.Store, log *slog.Logger) []Option {
	opts := []Option{
		WithDefaultLanguage(c.DefaultLanguage),
		WithLanguages(c.Languages...),
		WithPreferenceKey(c.PreferenceKey),
		WithNamespaces(c.Namespaces...),
		WithPersistence(store),
		WithLogger(log),
	}
	if c.FallbackLanguage != "" {
		opts = append(opts, WithFallbackLanguage(c.FallbackLanguage))
	}
	if c.DetectEnv {
		opts = append(opts, WithDetectors(langpref.EnvDetector()))
	}
	if log != nil {
		opts = append(opts, WithMissingKeyHandler(func(ctx context.Context, lang, namespace, key string) {
			log.DebugContext(ctx, "missing translation",
				slog.String("lang", lang),
				slog.String("namespace", namespace),
				slog.String("key", key),
			)
		}))
	}
	return opts
}
