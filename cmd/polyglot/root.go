package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/polyglot"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "polyglot",
		Short:        "Load and serve localization bundles",
		Long:         `Resolve translations from a bundle source (directory, HTTP or S3) with one-hop language fallback and a persisted language preference.`,
		SilenceUsage: true,
	}

	root.AddCommand(newTranslateCmd())
	root.AddCommand(newBundleCmd())
	root.AddCommand(newLangCmd())
	root.AddCommand(newServeCmd())

	return root
}

// session is a configured loader with the resources backing it.
type session struct {
	loader      *polyglot.Loader
	persistence *polyglot.Persistence
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := polyglot.LoadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Log, logger.LanguageExtractor(), logger.NamespaceExtractor())

	fetcher, err := cfg.Source.NewFetcher(nil)
	if err != nil {
		return nil, err
	}

	persistence, err := cfg.Persistence.Open(ctx)
	if err != nil {
		return nil, err
	}

	loader, err := polyglot.New(ctx, fetcher, cfg.Options(persistence.Store, log)...)
	if err != nil {
		return nil, errors.Join(err, persistence.Close(ctx))
	}

	return &session{loader: loader, persistence: persistence}, nil
}

func (s *session) close(ctx context.Context) error {
	return errors.Join(s.loader.Close(), s.persistence.Close(ctx))
}

// withSession runs fn against an open session and always releases it.
func withSession(cmd *cobra.Command, fn func(s *session) error) (err error) {
	ctx := cmd.Context()

	s, err := openSession(ctx)
	if err != nil {
		return fmt.Errorf("opening loader: %w", err)
	}
	defer func() {
		err = errors.Join(err, s.close(ctx))
	}()

	return fn(s)
}
