package advanced

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/settle/internal/model"
	"github.com/cleared-dev/settle/internal/simplify"
)

var hundred = decimal.NewFromInt(100)

// Analysis describes the obligations at the evaluation date.
type Analysis struct {
	EvaluationDate  time.Time
	TotalPrincipal  model.Money
	TotalInterest   model.Money
	TotalPenalty    model.Money
	TotalActualDebt model.Money
	// AdditionalCosts is interest plus penalties.
	AdditionalCosts           model.Money
	AdditionalCostsPercentage decimal.Decimal // of principal, two decimals
	Debtors                   int
	Creditors                 int
	OverdueTransactions       int
	MaxIndividualDebt         model.Money
	MaxIndividualCredit       model.Money
}

// Analysis sums the accrued obligations and their participants' net positions.
func (s *Simplifier) Analysis() Analysis {
	an := Analysis{
		EvaluationDate:            s.asOf,
		AdditionalCostsPercentage: decimal.Zero,
	}
	for _, a := range s.accruals {
		an.TotalPrincipal += a.Breakdown.Principal
		an.TotalInterest += a.Breakdown.Interest
		an.TotalPenalty += a.Breakdown.Penalty
		an.TotalActualDebt += a.Breakdown.Total
		if a.DaysOverdue > 0 {
			an.OverdueTransactions++
		}
	}
	an.AdditionalCosts = an.TotalInterest + an.TotalPenalty
	if an.TotalPrincipal > 0 {
		an.AdditionalCostsPercentage = an.AdditionalCosts.Decimal().
			Div(an.TotalPrincipal.Decimal()).Mul(hundred).Round(2)
	}

	for _, v := range simplify.NetBalances(s.Basic()) {
		switch {
		case v < 0:
			an.Debtors++
			an.MaxIndividualDebt = max(an.MaxIndividualDebt, -v)
		case v > 0:
			an.Creditors++
			an.MaxIndividualCredit = max(an.MaxIndividualCredit, v)
		}
	}
	return an
}

// PersonSummary is one participant's position at the evaluation date.
type PersonSummary struct {
	Name        string
	Balance     model.Money // accrued credits minus accrued debts
	Priority    float64     // sum of the priorities of their obligations
	DebtCount   int
	CreditCount int
}

// People summarizes every participant, sorted by name.
func (s *Simplifier) People() []PersonSummary {
	balances := simplify.NetBalances(s.Basic())
	byName := make(map[string]*PersonSummary, len(balances))
	for name, v := range balances {
		byName[name] = &PersonSummary{Name: name, Balance: v}
	}
	for _, a := range s.accruals {
		d, c := byName[a.Transaction.Debtor], byName[a.Transaction.Creditor]
		d.Priority += a.Priority
		d.DebtCount++
		c.Priority += a.Priority
		c.CreditCount++
	}

	out := make([]PersonSummary, 0, len(byName))
	for _, name := range balances.Participants() {
		out = append(out, *byName[name])
	}
	return out
}

// Plan is a settlement proposal together with the analysis it was based on.
type Plan struct {
	Result              *Result
	Analysis            Analysis
	OriginalCount       int
	SimplifiedCount     int
	ReductionPercentage decimal.Decimal // fewer transfers than obligations, in percent
}

// Plan simplifies the obligations and reports how much the count went down.
func (s *Simplifier) Plan() (*Plan, error) {
	res, err := s.Simplify()
	if err != nil {
		return nil, err
	}
	original := len(s.accruals)
	simplified := len(res.Basic)
	return &Plan{
		Result:              res,
		Analysis:            s.Analysis(),
		OriginalCount:       original,
		SimplifiedCount:     simplified,
		ReductionPercentage: reduction(original, simplified),
	}, nil
}

func reduction(original, simplified int) decimal.Decimal {
	base := decimal.NewFromInt(int64(max(1, original)))
	ratio := decimal.NewFromInt(int64(simplified)).Div(base)
	return decimal.NewFromInt(1).Sub(ratio).Mul(hundred).Round(2)
}
