// Package simplify reduces a set of pairwise debts into a smaller set of
// transfers that leaves every participant with the same net balance.
//
// Four strategies are available. All of them take the same input, never
// modify it, and return transactions that pass model validation.
package simplify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/settle/internal/model"
)

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrStateLimit      = errors.New("dynamic programming state limit exceeded")
	ErrNegativeCost    = errors.New("edge cost must be a non-negative number")
)

// Strategy selects a simplification algorithm.
type Strategy int

const (
	// Greedy nets balances and matches the largest debtor with the largest creditor.
	Greedy Strategy = iota + 1
	// DynamicProgramming searches every transfer order for the cheapest settlement.
	// Exponential in the number of participants.
	DynamicProgramming
	// MinCostMaxFlow routes all debt through a flow network at minimum cost.
	MinCostMaxFlow
	// CycleElimination cancels debt cycles and nets what remains.
	CycleElimination
)

var strategyNames = map[Strategy]string{
	Greedy:             "greedy",
	DynamicProgramming: "dp",
	MinCostMaxFlow:     "mcmf",
	CycleElimination:   "cycle",
}

var strategyAliases = map[string]Strategy{
	"greedy":              Greedy,
	"dp":                  DynamicProgramming,
	"dynamic_programming": DynamicProgramming,
	"mcmf":                MinCostMaxFlow,
	"min_cost_max_flow":   MinCostMaxFlow,
	"cycle":               CycleElimination,
	"cycle_elimination":   CycleElimination,
}

// All returns every strategy in declaration order.
func All() []Strategy {
	return []Strategy{Greedy, DynamicProgramming, MinCostMaxFlow, CycleElimination}
}

// ParseStrategy accepts the short names (greedy, dp, mcmf, cycle) and the
// long snake_case names. Hyphens are treated as underscores.
func ParseStrategy(s string) (Strategy, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if st, ok := strategyAliases[key]; ok {
		return st, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Simplify validates txs and runs the strategy on them.
// An empty input yields an empty, non-nil result.
func (s Strategy) Simplify(txs []model.BasicTransaction, opts ...Option) ([]model.BasicTransaction, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
	}
	if err := model.Join(model.ValidateBasic(txs)); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	o.log.Debug().Str("strategy", s.String()).Int("transactions", len(txs)).Msg("simplify")

	var (
		out []model.BasicTransaction
		err error
	)
	switch s {
	case Greedy:
		out = greedy(NetBalances(txs))
	case DynamicProgramming:
		var sol DPSolution
		sol, err = SolveDP(NetBalances(txs), opts...)
		out = sol.Transactions
	case MinCostMaxFlow:
		out, err = minCostMaxFlow(NetBalances(txs), o)
	case CycleElimination:
		out = eliminateCycles(txs, o)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	if out == nil {
		out = []model.BasicTransaction{}
	}
	return out, nil
}
