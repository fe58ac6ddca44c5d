package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/config"
	"github.com/cleared-dev/settle/internal/ledger"
	"github.com/cleared-dev/settle/internal/model"
)

const (
	sampleBasicFile    = "transactions.csv"
	sampleAdvancedFile = "obligations.csv"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default config and sample ledgers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized settle project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	if err := config.Save(cfgPath, config.Default()); err != nil {
		return err
	}

	if err := ledger.SaveBasic(filepath.Join(dir, sampleBasicFile), sampleBasic()); err != nil {
		return fmt.Errorf("writing sample ledger: %w", err)
	}

	advanced, err := sampleAdvanced()
	if err != nil {
		return err
	}
	if err := ledger.SaveAdvanced(filepath.Join(dir, sampleAdvancedFile), advanced); err != nil {
		return fmt.Errorf("writing sample obligations: %w", err)
	}
	return nil
}

// sampleBasic is a three-way cycle plus a short chain.
func sampleBasic() []model.BasicTransaction {
	return []model.BasicTransaction{
		{Debtor: "Alice", Creditor: "Bob", Amount: 5000},
		{Debtor: "Bob", Creditor: "Carol", Amount: 5000},
		{Debtor: "Carol", Creditor: "Alice", Amount: 5000},
		{Debtor: "Dave", Creditor: "Alice", Amount: 2000},
		{Debtor: "Erin", Creditor: "Dave", Amount: 3550},
	}
}

func sampleAdvanced() ([]model.AdvancedTransaction, error) {
	rows := []struct {
		debtor, creditor string
		amount           model.Money
		borrow, due      string
		interest         float64
		penalty          float64
		it               model.InterestType
		pt               model.PenaltyType
	}{
		{"Alice", "Bob", 25000, "2024-01-01", "2024-03-01", 0.08, 10, model.InterestCompoundMonthly, model.PenaltyFixed},
		{"Bob", "Carol", 12000, "2024-02-15", "2024-05-15", 0.05, 0.5, model.InterestSimple, model.PenaltyDaily},
		{"Carol", "Alice", 8000, "2024-03-01", "2024-12-31", 0.1, 0.02, model.InterestCompoundDaily, model.PenaltyPercentage},
		{"Dave", "Bob", 4000, "2024-04-10", "2024-06-10", 0, 0, model.InterestSimple, model.PenaltyFixed},
	}

	txs := make([]model.AdvancedTransaction, 0, len(rows))
	for _, r := range rows {
		borrow, err := model.ParseDate(r.borrow)
		if err != nil {
			return nil, err
		}
		due, err := model.ParseDate(r.due)
		if err != nil {
			return nil, err
		}
		tx, err := model.NewAdvancedTransaction(r.debtor, r.creditor, r.amount, borrow, due,
			r.interest, r.penalty, r.it, r.pt)
		if err != nil {
			return nil, fmt.Errorf("building sample obligation: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
