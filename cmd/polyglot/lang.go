package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLangCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lang",
		Short: "Inspect or change the active language",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the active language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, func(s *session) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), s.loader.ActiveLanguage())
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <code>",
		Short: "Change and persist the active language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				if err := s.loader.SetLanguage(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("%w (supported: %s)", err, strings.Join(s.loader.Languages().All(), ", "))
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), s.loader.ActiveLanguage())
				return err
			})
		},
	})

	return cmd
}
