package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"phrasegen/internal/grammar"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules of a grammar",
		Long:  `Loads the grammar and prints each rule name with its number of alternatives, in file order. The first rule is the start rule.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, nil)
			if err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)

			path, err := grammarPath(cmd, cfg)
			if err != nil {
				return err
			}

			table, err := grammar.NewLoader(logger).LoadFile(path)
			if err != nil {
				return err
			}
			if table.Len() == 0 {
				return fmt.Errorf("%s: %w", path, grammar.ErrNoRules)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RULE\tALTERNATIVES")
			for _, rule := range table.Rules() {
				fmt.Fprintf(w, "%s\t%d\n", rule.Name, rule.Alternatives())
			}
			return w.Flush()
		},
	}
}
