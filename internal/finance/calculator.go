// Package finance computes accrued interest, late penalties and priority
// scores for dated obligations. Every function is pure.
package finance

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/settle/internal/model"
)

const daysPerYear = 365

// Terms are the inputs that determine how an obligation grows over time.
type Terms struct {
	Principal    model.Money
	InterestRate float64
	PenaltyRate  float64
	BorrowDate   time.Time
	DueDate      time.Time
	InterestType model.InterestType
	PenaltyType  model.PenaltyType
}

// TermsOf extracts the accrual terms of tx.
func TermsOf(tx model.AdvancedTransaction) Terms {
	return Terms{
		Principal:    tx.Amount,
		InterestRate: tx.InterestRate,
		PenaltyRate:  tx.PenaltyRate,
		BorrowDate:   tx.BorrowDate,
		DueDate:      tx.DueDate,
		InterestType: tx.InterestType,
		PenaltyType:  tx.PenaltyType,
	}
}

// Breakdown splits a debt into its components at an evaluation date.
// Total always equals Principal + Interest + Penalty.
type Breakdown struct {
	Principal model.Money
	Interest  model.Money
	Penalty   model.Money
	Total     model.Money
}

// Interest returns the interest accrued on principal between start and end.
// It is zero when end is not after start, or when rate or principal is not positive.
// Growth beyond model.MaxMoney returns model.ErrAmountOutOfRange.
func Interest(principal model.Money, rate float64, start, end time.Time, kind model.InterestType) (model.Money, error) {
	if rate <= 0 || principal <= 0 {
		return 0, nil
	}
	days := model.DaysBetween(start, end)
	if days <= 0 {
		return 0, nil
	}

	p := principal.Float()
	switch kind {
	case model.InterestSimple:
		// Exact in decimal: principal * rate * days / 365.
		d := principal.Decimal().
			Mul(decimal.NewFromFloat(rate)).
			Mul(decimal.NewFromInt(int64(days))).
			Div(decimal.NewFromInt(daysPerYear))
		return model.MoneyFromDecimal(d)
	case model.InterestCompoundDaily:
		return model.MoneyFromFloat(p * (math.Pow(1+rate/daysPerYear, float64(days)) - 1))
	case model.InterestCompoundMonthly:
		months := model.MonthsBetween(start, end)
		return model.MoneyFromFloat(p * (math.Pow(1+rate/12, float64(months)) - 1))
	case model.InterestCompoundYearly:
		return model.MoneyFromFloat(p * (math.Pow(1+rate, float64(days)/daysPerYear) - 1))
	}
	return 0, nil
}

// Penalty returns the late fee owed at current for a debt due on due.
// It is zero unless current is after due.
func Penalty(principal model.Money, rate float64, due, current time.Time, kind model.PenaltyType) (model.Money, error) {
	overdue := model.DaysBetween(due, current)
	if overdue <= 0 {
		return 0, nil
	}
	switch kind {
	case model.PenaltyFixed:
		return model.MoneyFromFloat(rate)
	case model.PenaltyDaily:
		return model.MoneyFromDecimal(decimal.NewFromFloat(rate).Mul(decimal.NewFromInt(int64(overdue))))
	case model.PenaltyPercentage:
		return model.MoneyFromDecimal(principal.Decimal().Mul(decimal.NewFromFloat(rate)))
	}
	return 0, nil
}

// TotalDebt evaluates t at asOf. Interest runs from the borrow date, penalties from the due date.
func TotalDebt(t Terms, asOf time.Time) (Breakdown, error) {
	interest, err := Interest(t.Principal, t.InterestRate, t.BorrowDate, asOf, t.InterestType)
	if err != nil {
		return Breakdown{}, fmt.Errorf("accruing interest: %w", err)
	}
	penalty, err := Penalty(t.Principal, t.PenaltyRate, t.DueDate, asOf, t.PenaltyType)
	if err != nil {
		return Breakdown{}, fmt.Errorf("accruing penalty: %w", err)
	}
	total := t.Principal + interest + penalty
	if total > model.MaxMoney {
		return Breakdown{}, fmt.Errorf("%w: total debt %s", model.ErrAmountOutOfRange, total)
	}
	return Breakdown{
		Principal: t.Principal,
		Interest:  interest,
		Penalty:   penalty,
		Total:     total,
	}, nil
}

// PriorityScore ranks how urgently an obligation should be settled. Larger
// debts, nearer or missed due dates, higher interest and non-fixed penalties
// all raise it. The score only orders otherwise equivalent choices.
func PriorityScore(t Terms, asOf time.Time) (float64, error) {
	b, err := TotalDebt(t, asOf)
	if err != nil {
		return 0, err
	}
	base := b.Total.Float()

	daysToDue := model.DaysBetween(asOf, t.DueDate)
	var timeWeight float64
	if daysToDue <= 0 {
		// Overdue: 2x rising by one per 30 days late, capped at 7x.
		timeWeight = 2 + math.Min(math.Abs(float64(daysToDue))/30, 5)
	} else {
		timeWeight = math.Max(0.5, 2/math.Max(1, float64(daysToDue)/30))
	}

	interestWeight := 1 + t.InterestRate*10

	penaltyWeight := 1.0
	if t.PenaltyType != model.PenaltyFixed && t.PenaltyRate > 0 {
		penaltyWeight = 1 + t.PenaltyRate*5
	}

	score := base * timeWeight * interestWeight * penaltyWeight
	return math.Round(score*100) / 100, nil
}
