package main

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/polyglot"
	"github.com/dmitrymomot/polyglot/pkg/httpapi"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve bundles over HTTP",
		Long: `Serve the configured bundle source at /locales/{lang}/{namespace} with
health probes and Prometheus metrics. Remote loaders consume it through
the http source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := polyglot.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}

			log := logger.New(cfg.Log, httpapi.RequestIDExtractor(), logger.LanguageExtractor(), logger.NamespaceExtractor())

			langs, err := i18n.NewLanguages(cfg.DefaultLanguage, cfg.Languages...)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			fetcher, err := cfg.Source.NewFetcher(reg)
			if err != nil {
				return err
			}

			persistence, err := cfg.Persistence.Open(ctx)
			if err != nil {
				return err
			}

			checks := httpapi.Checks{}
			if persistence.Healthcheck != nil {
				checks["persistence"] = persistence.Healthcheck
			}

			h := httpapi.New(fetcher,
				httpapi.WithLogger(log),
				httpapi.WithLanguages(langs),
				httpapi.WithChecks(checks),
				httpapi.WithMetrics(reg, reg),
			)

			log.InfoContext(ctx, "serving bundles",
				slog.String("source", cfg.Source.Kind),
				slog.Any("languages", langs.All()),
			)

			return httpapi.Serve(ctx, cfg.HTTP.Addr, h,
				httpapi.WithServerLogger(log),
				httpapi.WithTimeouts(cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout, cfg.HTTP.IdleTimeout),
				httpapi.WithShutdownTimeout(cfg.HTTP.ShutdownTimeout),
				httpapi.WithShutdownHook(httpapi.ShutdownHook(persistence.Close)),
			)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides POLYGLOT_HTTP_ADDR)")

	return cmd
}
