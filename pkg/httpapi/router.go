package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
	"github.com/dmitrymomot/polyglot/pkg/source"
)

// Option configures the router.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	langs      *i18n.Languages
	checks     Checks
	health     []HealthOption
	gatherer   prometheus.Gatherer
	registerer prometheus.Registerer
	maxAge     time.Duration
}

// WithLogger sets the logger.
// Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLanguages restricts the bundle endpoint to a supported set. Requests
// for other languages get 404 without reaching the source.
func WithLanguages(langs i18n.Languages) Option {
	return func(c *config) {
		c.langs = &langs
	}
}

// WithChecks sets the readiness checks.
func WithChecks(checks Checks, opts ...HealthOption) Option {
	return func(c *config) {
		c.checks = checks
		c.health = opts
	}
}

// WithMetrics exposes /metrics from g and records request metrics in r.
// r may be nil to skip request metrics.
func WithMetrics(g prometheus.Gatherer, r prometheus.Registerer) Option {
	return func(c *config) {
		c.gatherer = g
		c.registerer = r
	}
}

// WithCacheControl sets the max-age of bundle responses.
// Default: no Cache-Control header.
func WithCacheControl(maxAge time.Duration) Option {
	return func(c *config) {
		c.maxAge = maxAge
	}
}

// New builds the router.
func New(fetcher source.Fetcher, opts ...Option) http.Handler {
	cfg := &config{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if cfg.registerer != nil {
		r.Use(requestMetrics(cfg.registerer))
	}

	h := &bundleHandler{fetcher: fetcher, cfg: cfg}
	r.Get("/locales/{lang}/{namespace}", h.serve)

	healthOpts := append([]HealthOption{WithHealthLogger(cfg.logger)}, cfg.health...)
	r.Get("/health/live", LivenessHandler())
	r.Get("/health/ready", ReadinessHandler(cfg.checks, healthOpts...))

	if cfg.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// RequestIDExtractor adds the chi request id to log records.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id := middleware.GetReqID(ctx)
		if id == "" {
			return slog.Attr{}, false
		}
		return slog.String("request_id", id), true
	}
}

type bundleHandler struct {
	fetcher source.Fetcher
	cfg     *config
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *bundleHandler) serve(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	namespace := chi.URLParam(r, "namespace")

	ctx := logger.WithNamespace(logger.WithLanguage(r.Context(), lang), namespace)

	if h.cfg.langs != nil {
		code, ok := h.cfg.langs.Lookup(lang)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("language %q is not supported", lang)})
			return
		}
		lang = code
	}

	b, err := h.fetcher.Fetch(ctx, lang, namespace)
	switch {
	case err == nil:
	case errors.Is(err, source.ErrNotFound):
		h.cfg.logger.DebugContext(ctx, "bundle not found")
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "bundle not found"})
		return
	default:
		h.cfg.logger.WarnContext(ctx, "bundle fetch failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "bundle source unavailable"})
		return
	}

	if h.cfg.maxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.cfg.maxAge.Seconds())))
	}
	w.Header().Set("Content-Language", lang)
	writeJSON(w, http.StatusOK, b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
