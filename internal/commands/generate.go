package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/ledger"
	"github.com/cleared-dev/settle/internal/samplegen"
)

type generateFlags struct {
	people    int
	count     int
	advanced  bool
	seed      uint64
	maxAmount int64
	asOf      string
	out       string
}

func newGenerateCommand(a *app) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("seed") {
				f.seed = a.cfg.Bench.Seed
			}
			if !cmd.Flags().Changed("max-amount") {
				f.maxAmount = a.cfg.Bench.MaxAmount
			}
			return runGenerate(cmd, a, f)
		},
	}

	cmd.Flags().IntVar(&f.people, "people", 5, "number of participants")
	cmd.Flags().IntVar(&f.count, "count", 10, "number of transactions")
	cmd.Flags().BoolVar(&f.advanced, "advanced", false, "generate dated obligations")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().Int64Var(&f.maxAmount, "max-amount", 0, "largest amount in whole units (default from config)")
	cmd.Flags().StringVar(&f.asOf, "as-of", "", "reference date for --advanced")
	cmd.Flags().StringVar(&f.out, "out", "", "write to this file instead of stdout")

	return cmd
}

func runGenerate(cmd *cobra.Command, a *app, f generateFlags) error {
	gen, err := samplegen.New(f.seed, f.maxAmount)
	if err != nil {
		return err
	}

	if f.advanced {
		asOf, err := a.asOf(f.asOf)
		if err != nil {
			return err
		}
		txs, err := gen.Advanced(f.people, f.count, asOf)
		if err != nil {
			return err
		}
		if f.out != "" {
			return ledger.SaveAdvanced(f.out, txs)
		}
		return ledger.WriteAdvanced(cmd.OutOrStdout(), txs)
	}

	txs, err := gen.Basic(f.people, f.count)
	if err != nil {
		return err
	}
	if f.out != "" {
		return ledger.SaveBasic(f.out, txs)
	}
	return ledger.WriteBasic(cmd.OutOrStdout(), txs)
}
