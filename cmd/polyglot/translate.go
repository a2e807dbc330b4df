package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/polyglot"
)

func newTranslateCmd() *cobra.Command {
	var (
		lang string
		vars []string
	)

	cmd := &cobra.Command{
		Use:   "translate <namespace> <key>",
		Short: "Print the translation of a key",
		Long: `Print the translation of a dotted key from a namespace in the active
language, or in --lang. A key missing from both the language and the
fallback language is printed as is.`,
		Example: `  polyglot translate common greeting --var name=Ada
  polyglot translate errors auth.denied --lang fr`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseVars(vars)
			if err != nil {
				return err
			}
			namespace, key := args[0], args[1]

			return withSession(cmd, func(s *session) error {
				var text string
				if lang != "" {
					text = s.loader.TranslateIn(cmd.Context(), lang, key, namespace, m)
				} else {
					text = s.loader.Translate(cmd.Context(), key, namespace, m)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language to translate into instead of the active one")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "placeholder value as name=value (repeatable)")

	return cmd
}

func parseVars(vars []string) (polyglot.M, error) {
	m := make(polyglot.M, len(vars))
	for _, v := range vars {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q: expected name=value", v)
		}
		m[name] = value
	}
	return m, nil
}
