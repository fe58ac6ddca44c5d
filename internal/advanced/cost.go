package advanced

import (
	"math"

	"github.com/cleared-dev/settle/internal/simplify"
)

type pair struct {
	debtor, creditor string
}

// PriorityCost prices min-cost max-flow edges from obligation priorities.
// A pair that already has a direct obligation costs max(0.1, 1/avg) where
// avg is the mean priority of those obligations, so urgent existing debts
// are settled directly. Any other pair costs max(1, 10/avg) where avg is
// the mean of the two participants' summed priorities. Priorities below 1
// count as 1. Costs are rounded to two decimals and never negative.
func PriorityCost(accruals []Accrual) simplify.EdgeCost {
	pairSum := make(map[pair]float64)
	pairCount := make(map[pair]int)
	person := make(map[string]float64)
	for _, a := range accruals {
		k := pair{a.Transaction.Debtor, a.Transaction.Creditor}
		pairSum[k] += a.Priority
		pairCount[k]++
		person[k.debtor] += a.Priority
		person[k.creditor] += a.Priority
	}

	return func(debtor, creditor string) float64 {
		k := pair{debtor, creditor}
		if n := pairCount[k]; n > 0 {
			avg := pairSum[k] / float64(n)
			return round2(math.Max(0.1, 1/math.Max(avg, 1)))
		}
		avg := (person[debtor] + person[creditor]) / 2
		return round2(math.Max(1, 10/math.Max(avg, 1)))
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
