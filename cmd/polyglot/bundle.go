package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newBundleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bundle <lang> <namespace>",
		Short: "Print the resolved bundle as JSON",
		Long: `Print the bundle the loader resolves for a language and namespace,
after fallback. An empty object means neither the language nor the
fallback language has the namespace.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				b := s.loader.BundleIn(cmd.Context(), args[0], args[1])

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			})
		},
	}
}
