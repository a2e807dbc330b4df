package source

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// Metrics holds the collectors updated by instrumented fetchers.
type Metrics struct {
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the fetch collectors with reg.
// A nil registerer creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polyglot",
			Subsystem: "source",
			Name:      "fetches_total",
			Help:      "Bundle fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "polyglot",
			Subsystem: "source",
			Name:      "fetch_duration_seconds",
			Help:      "Bundle fetch latency by source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}
}

// Instrument wraps f so that every fetch is counted by outcome and timed.
// name labels the series, e.g. "fs", "http" or "s3".
func Instrument(f Fetcher, name string, m *Metrics) Fetcher {
	if m == nil {
		return f
	}

	return Func(func(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
		start := time.Now()
		b, err := f.Fetch(ctx, lang, namespace)

		m.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		m.fetches.WithLabelValues(name, Outcome(err)).Inc()

		return b, err
	})
}
