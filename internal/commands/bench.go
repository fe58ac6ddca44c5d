package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/bench"
)

func newBenchCommand(a *app) *cobra.Command {
	var runs int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the strategies on generated ledgers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if runs > 0 {
				cfg.Bench.Runs = runs
			}
			results, err := bench.Run(cmd.Context(), &cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), bench.Render(results))
			return nil
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 0, "timed runs per strategy (default from config)")

	return cmd
}
