// Package bench compares the simplification strategies on generated ledgers.
package bench

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cleared-dev/settle/internal/config"
	"github.com/cleared-dev/settle/internal/logger"
	"github.com/cleared-dev/settle/internal/samplegen"
	"github.com/cleared-dev/settle/internal/simplify"
)

// Result is the outcome of one strategy on one case.
type Result struct {
	Case     config.BenchCase
	Strategy simplify.Strategy
	Open     int // participants with a non-zero balance
	Runs     int
	Mean     time.Duration
	Count    int // settlements produced
	Skipped  bool
	Err      error
}

// Run generates each configured case once and times every strategy on it.
// Dynamic programming is skipped when the open participants exceed
// cfg.Engine.DPMaxParticipants.
func Run(ctx context.Context, cfg *config.Config) ([]Result, error) {
	log := logger.FromContext(ctx)
	gen, err := samplegen.New(cfg.Bench.Seed, cfg.Bench.MaxAmount)
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	opts := append(cfg.EngineOptions(), simplify.WithLogger(log))

	var results []Result
	for _, bc := range cfg.Bench.Cases {
		txs, err := gen.Basic(bc.People, bc.Transactions)
		if err != nil {
			return nil, fmt.Errorf("generating %d people, %d transactions: %w", bc.People, bc.Transactions, err)
		}
		open := len(simplify.NetBalances(txs).Open())

		for _, s := range simplify.All() {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			r := Result{Case: bc, Strategy: s, Open: open}
			if s == simplify.DynamicProgramming && cfg.Engine.DPMaxParticipants > 0 && open > cfg.Engine.DPMaxParticipants {
				r.Skipped = true
				results = append(results, r)
				continue
			}

			var total time.Duration
			for range cfg.Bench.Runs {
				start := time.Now()
				out, err := s.Simplify(txs, opts...)
				total += time.Since(start)
				r.Runs++
				if err != nil {
					r.Err = err
					break
				}
				r.Count = len(out)
			}
			r.Mean = total / time.Duration(r.Runs)
			log.Debug().
				Str("strategy", s.String()).
				Int("people", bc.People).
				Int("transactions", bc.Transactions).
				Dur("mean", r.Mean).
				Int("settlements", r.Count).
				Msg("bench case")
			results = append(results, r)
		}
	}
	return results, nil
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	skippedStyle = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
	errorStyle   = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
)

// Render formats results as a table.
func Render(results []Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, row(r))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("people", "transactions", "open", "strategy", "mean", "settlements").
		Rows(rows...).
		StyleFunc(func(i, _ int) lipgloss.Style {
			if i == table.HeaderRow {
				return headerStyle
			}
			switch {
			case results[i].Err != nil:
				return errorStyle
			case results[i].Skipped:
				return skippedStyle
			}
			return cellStyle
		})
	return t.String()
}

func row(r Result) []string {
	mean, count := r.Mean.String(), strconv.Itoa(r.Count)
	switch {
	case r.Skipped:
		mean, count = "skipped", "-"
	case r.Err != nil:
		mean, count = "error", r.Err.Error()
	}
	return []string{
		strconv.Itoa(r.Case.People),
		strconv.Itoa(r.Case.Transactions),
		strconv.Itoa(r.Open),
		r.Strategy.String(),
		mean,
		count,
	}
}
