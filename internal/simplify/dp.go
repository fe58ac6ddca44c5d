package simplify

import (
	"encoding/binary"

	"github.com/cleared-dev/settle/internal/model"
)

// DPSolution is the cheapest settlement found by SolveDP.
type DPSolution struct {
	Cost         model.Money // total money moved
	Count        int
	Transactions []model.BasicTransaction
	States       int // memo entries explored
}

// dpEntry is the memoized best continuation from one state.
type dpEntry struct {
	cost     model.Money
	count    int
	debtor   int // first move; -1 at the terminal state
	creditor int
	amount   model.Money
}

type dpSolver struct {
	names     []string
	memo      map[string]dpEntry
	maxStates int
	keyBuf    []byte
}

// SolveDP searches every sequence of transfers that settles b and returns
// one minimizing total money moved, then transfer count. Each step moves
// min(|debt|, credit) between an open debtor and an open creditor.
//
// The state space grows exponentially with the number of open participants.
// Use WithMaxStates to fail with ErrStateLimit instead of running away.
func SolveDP(b Balances, opts ...Option) (DPSolution, error) {
	o := newOptions(opts)
	names := b.Open()
	state := make([]model.Money, len(names))
	for i, n := range names {
		state[i] = b[n]
	}

	s := &dpSolver{
		names:     names,
		memo:      make(map[string]dpEntry),
		maxStates: o.maxStates,
	}
	best, err := s.solve(state)
	if err != nil {
		return DPSolution{States: len(s.memo)}, err
	}
	o.log.Debug().Int("participants", len(names)).Int("states", len(s.memo)).
		Int("transactions", best.count).Msg("dp solved")

	// Replay the chosen first moves from the root.
	txs := make([]model.BasicTransaction, 0, best.count)
	for e := best; e.debtor >= 0; {
		txs = append(txs, model.BasicTransaction{
			Debtor:   names[e.debtor],
			Creditor: names[e.creditor],
			Amount:   e.amount,
		})
		state[e.debtor] += e.amount
		state[e.creditor] -= e.amount
		e = s.memo[s.key(state)]
	}
	return DPSolution{
		Cost:         best.cost,
		Count:        best.count,
		Transactions: txs,
		States:       len(s.memo),
	}, nil
}

func (s *dpSolver) solve(state []model.Money) (dpEntry, error) {
	k := s.key(state)
	if e, ok := s.memo[k]; ok {
		return e, nil
	}
	if s.maxStates > 0 && len(s.memo) >= s.maxStates {
		return dpEntry{}, ErrStateLimit
	}

	best := dpEntry{debtor: -1, creditor: -1}
	found := false
	for d, dv := range state {
		if dv >= 0 {
			continue
		}
		for c, cv := range state {
			if cv <= 0 {
				continue
			}
			amount := model.MinMoney(-dv, cv)
			state[d] += amount
			state[c] -= amount
			sub, err := s.solve(state)
			state[d] -= amount
			state[c] += amount
			if err != nil {
				return dpEntry{}, err
			}

			cost, count := sub.cost+amount, sub.count+1
			if !found || cost < best.cost || (cost == best.cost && count < best.count) {
				best = dpEntry{cost: cost, count: count, debtor: d, creditor: c, amount: amount}
				found = true
			}
		}
	}
	// No open debtor means every balance is zero: the terminal state.
	s.memo[k] = best
	return best, nil
}

// key encodes the balance vector in canonical participant order.
func (s *dpSolver) key(state []model.Money) string {
	buf := s.keyBuf[:0]
	for _, v := range state {
		buf = binary.AppendVarint(buf, int64(v))
	}
	s.keyBuf = buf
	return string(buf)
}
