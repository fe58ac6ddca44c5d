package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/advanced"
	"github.com/cleared-dev/settle/internal/collections"
	"github.com/cleared-dev/settle/internal/ledger"
	"github.com/cleared-dev/settle/internal/logger"
	"github.com/cleared-dev/settle/internal/runlog"
	"github.com/cleared-dev/settle/internal/simplify"
)

type simplifyFlags struct {
	strategy string
	advanced bool
	asOf     string
	out      string
	logDir   string
}

func newSimplifyCommand(a *app) *cobra.Command {
	var f simplifyFlags

	cmd := &cobra.Command{
		Use:   "simplify <ledger.csv>",
		Short: "Reduce a ledger to the fewest settling transfers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimplify(cmd, a, args[0], f)
		},
	}

	cmd.Flags().StringVar(&f.strategy, "strategy", "", "greedy, dp, mcmf or cycle (default from config)")
	cmd.Flags().BoolVar(&f.advanced, "advanced", false, "read dated obligations and accrue interest and penalties")
	cmd.Flags().StringVar(&f.asOf, "as-of", "", "evaluation date YYYY-MM-DD for --advanced")
	cmd.Flags().StringVar(&f.out, "out", "", "write settlements to this file instead of stdout")
	cmd.Flags().StringVar(&f.logDir, "log-dir", "", "append a row to <dir>/logs/runs.csv")

	return cmd
}

func runSimplify(cmd *cobra.Command, a *app, path string, f simplifyFlags) error {
	s, err := a.strategy(f.strategy)
	if err != nil {
		return err
	}
	log := logger.FromContext(cmd.Context())

	start := time.Now()
	entry := runlog.Entry{
		Timestamp: start.UTC().Truncate(time.Second),
		Strategy:  s.String(),
		Mode:      "basic",
		Input:     filepath.Base(path),
	}
	report := reportWriter(cmd, f.out)

	if f.advanced {
		entry.Mode = "advanced"
		if err := simplifyAdvanced(cmd, a, s, path, f, &entry, report); err != nil {
			return err
		}
	} else {
		txs, err := ledger.LoadBasic(path)
		if err != nil {
			return err
		}
		if err := a.checkDP(s, txs); err != nil {
			return err
		}
		opts := append(a.cfg.EngineOptions(), simplify.WithLogger(log))
		out, err := s.Simplify(txs, opts...)
		if err != nil {
			return err
		}
		if f.out != "" {
			err = ledger.SaveBasic(f.out, out)
		} else {
			err = ledger.WriteBasic(cmd.OutOrStdout(), out)
		}
		if err != nil {
			return err
		}
		entry.RunID = uuid.New()
		entry.Obligations, entry.Settlements = len(txs), len(out)
	}
	entry.Duration = time.Since(start)

	fmt.Fprintf(report, "%s: %d obligations settled by %d transfers\n", s, entry.Obligations, entry.Settlements)

	if f.logDir != "" {
		if err := runlog.Append(f.logDir, []runlog.Entry{entry}); err != nil {
			return fmt.Errorf("writing run log: %w", err)
		}
	}
	return nil
}

func simplifyAdvanced(cmd *cobra.Command, a *app, s simplify.Strategy, path string, f simplifyFlags, entry *runlog.Entry, report io.Writer) error {
	txs, err := ledger.LoadAdvanced(path)
	if err != nil {
		return err
	}
	asOf, err := a.asOf(f.asOf)
	if err != nil {
		return err
	}

	sim, err := advanced.New(s, txs, asOf,
		advanced.WithLogger(logger.FromContext(cmd.Context())),
		advanced.WithEngineOptions(a.cfg.EngineOptions()...),
	)
	if err != nil {
		return err
	}
	if err := a.checkDP(s, sim.Basic()); err != nil {
		return err
	}

	res, err := sim.Simplify()
	if err != nil {
		return err
	}
	if f.out != "" {
		err = ledger.SaveAdvanced(f.out, res.Settlements)
	} else {
		err = ledger.WriteAdvanced(cmd.OutOrStdout(), res.Settlements)
	}
	if err != nil {
		return err
	}

	if res.Statistics != nil {
		stats := res.Statistics.Map()
		for _, k := range collections.SortedKeys(stats) {
			fmt.Fprintf(report, "%s: %.2f\n", k, stats[k])
		}
	}

	entry.RunID = res.RunID
	entry.Obligations, entry.Settlements = len(txs), len(res.Settlements)
	return nil
}
