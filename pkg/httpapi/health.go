package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// DefaultCheckTimeout bounds a readiness run.
const DefaultCheckTimeout = 5 * time.Second

// Probe statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// ErrCheckTimeout is reported for a check that outlived the readiness timeout.
var ErrCheckTimeout = errors.New("httpapi: health check timeout")

// CheckFunc reports whether a dependency is usable.
// kv.Healthcheck returns a compatible closure.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to check functions.
type Checks map[string]CheckFunc

// HealthResponse is the JSON body of a probe.
type HealthResponse struct {
	Checks map[string]CheckResult `json:"checks,omitempty"`
	Status string                 `json:"status"`
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthConfig struct {
	logger  *slog.Logger
	timeout time.Duration
}

// HealthOption configures the readiness probe.
type HealthOption func(*healthConfig)

// WithCheckTimeout sets the timeout shared by all checks of one run.
// Default: 5s.
func WithCheckTimeout(d time.Duration) HealthOption {
	return func(c *healthConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHealthLogger sets the logger for failed checks.
func WithHealthLogger(l *slog.Logger) HealthOption {
	return func(c *healthConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// LivenessHandler always responds OK.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, &HealthResponse{Status: StatusHealthy})
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// ReadinessHandler runs checks in parallel and responds 503 when any fails.
// Plain text by default; JSON with Accept: application/json or ?format=json.
func ReadinessHandler(checks Checks, opts ...HealthOption) http.HandlerFunc {
	cfg := &healthConfig{
		logger:  logger.NewNope(),
		timeout: DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := runChecks(r.Context(), checks, cfg)

		status := http.StatusOK
		if resp.Status == StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}

		if wantsJSON(r) {
			writeJSON(w, status, resp)
			return
		}

		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte("OK"))
		} else {
			_, _ = w.Write([]byte("Service Unavailable"))
		}
	}
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func runChecks(ctx context.Context, checks Checks, cfg *healthConfig) *HealthResponse {
	if len(checks) == 0 {
		return &HealthResponse{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]CheckResult, len(checks))
		failed  bool
	)

	for name, check := range checks {
		wg.Go(func() {
			err := check(ctx)
			if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = errors.Join(ErrCheckTimeout, err)
			}

			result := CheckResult{Status: StatusHealthy}
			if err != nil {
				result = CheckResult{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()),
				)
			}

			mu.Lock()
			results[name] = result
			failed = failed || err != nil
			mu.Unlock()
		})
	}
	wg.Wait()

	status := StatusHealthy
	if failed {
		status = StatusUnhealthy
	}
	return &HealthResponse{Status: status, Checks: results}
}
