package advanced

import (
	"github.com/cleared-dev/settle/internal/model"
)

// Statistic keys used by Statistics.Map.
const (
	StatTotalCost          = "total_cost"
	StatTotalTransactions  = "total_transactions"
	StatPriorityEfficiency = "priority_efficiency"
	StatCostReductionRatio = "cost_reduction_ratio"
	StatAverageOverdueDays = "average_overdue_days"
	StatTotalInterestSaved = "total_interest_saved"
)

// Statistics summarizes a dynamic programming run.
type Statistics struct {
	TotalCost         model.Money // money moved by the settlements
	TotalTransactions int
	// PriorityEfficiency is, in percent, the summed mean priority of the
	// two parties of every settlement over the total priority of all
	// obligations.
	PriorityEfficiency float64
	// CostReductionRatio is, in percent, how much less money moves than the
	// sum of all accrued obligations.
	CostReductionRatio float64
	AverageOverdueDays float64
	TotalInterestSaved model.Money
}

// Map returns the statistics keyed by their snake_case names.
func (s Statistics) Map() map[string]float64 {
	return map[string]float64{
		StatTotalCost:          s.TotalCost.Float(),
		StatTotalTransactions:  float64(s.TotalTransactions),
		StatPriorityEfficiency: s.PriorityEfficiency,
		StatCostReductionRatio: s.CostReductionRatio,
		StatAverageOverdueDays: s.AverageOverdueDays,
		StatTotalInterestSaved: s.TotalInterestSaved.Float(),
	}
}

func (s *Simplifier) statistics(settlements []model.BasicTransaction) *Statistics {
	st := &Statistics{TotalTransactions: len(settlements)}
	for _, b := range settlements {
		st.TotalCost += b.Amount
	}

	var (
		original      model.Money
		totalPriority float64
		overdueDays   int
	)
	for _, a := range s.accruals {
		original += a.Breakdown.Total
		totalPriority += a.Priority
		overdueDays += a.DaysOverdue
	}

	if totalPriority > 0 {
		avg := s.averagePriorities()
		var handled float64
		for _, b := range settlements {
			handled += (avg[b.Debtor] + avg[b.Creditor]) / 2
		}
		st.PriorityEfficiency = handled / totalPriority * 100
	}
	if saved := original - st.TotalCost; saved > 0 {
		st.TotalInterestSaved = saved
		st.CostReductionRatio = saved.Float() / original.Float() * 100
	}
	if n := len(s.accruals); n > 0 {
		st.AverageOverdueDays = float64(overdueDays) / float64(n)
	}
	return st
}

// averagePriorities returns each participant's mean priority over the
// obligations they take part in, on either side.
func (s *Simplifier) averagePriorities() map[string]float64 {
	sum := make(map[string]float64)
	n := make(map[string]int)
	for _, a := range s.accruals {
		for _, p := range []string{a.Transaction.Debtor, a.Transaction.Creditor} {
			sum[p] += a.Priority
			n[p]++
		}
	}
	avg := make(map[string]float64, len(sum))
	for p, v := range sum {
		avg[p] = v / float64(n[p])
	}
	return avg
}
