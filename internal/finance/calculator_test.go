package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/settle/internal/model"
)

func date(y, m, d int) time.Time {
	return model.Date(y, time.Month(m), d)
}

func TestInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal model.Money
		rate      float64
		start     time.Time
		end       time.Time
		kind      model.InterestType
		want      model.Money
	}{
		{"simple full year", 10000, 0.05, date(2023, 1, 1), date(2024, 1, 1), model.InterestSimple, 500},
		{"simple 73 days", 100000, 0.10, date(2023, 1, 1), date(2023, 3, 15), model.InterestSimple, 2000},
		{"compound daily", 100000, 0.0365, date(2024, 1, 1), date(2024, 1, 11), model.InterestCompoundDaily, 100},
		{"compound monthly five months", 10000, 0.08, date(2024, 1, 1), date(2024, 6, 1), model.InterestCompoundMonthly, 338},
		{"compound monthly partial month", 10000, 0.08, date(2024, 1, 1), date(2024, 1, 20), model.InterestCompoundMonthly, 0},
		{"compound yearly two years", 100000, 0.10, date(2022, 1, 1), date(2024, 1, 1), model.InterestCompoundYearly, 21000},
		{"zero rate", 10000, 0, date(2023, 1, 1), date(2024, 1, 1), model.InterestSimple, 0},
		{"end before start", 10000, 0.05, date(2024, 1, 1), date(2023, 1, 1), model.InterestCompoundDaily, 0},
		{"same day", 10000, 0.05, date(2024, 1, 1), date(2024, 1, 1), model.InterestCompoundYearly, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interest(tt.principal, tt.rate, tt.start, tt.end, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPenalty(t *testing.T) {
	due := date(2024, 2, 1)
	late := date(2024, 2, 11)

	tests := []struct {
		name    string
		rate    float64
		current time.Time
		kind    model.PenaltyType
		want    model.Money
	}{
		{"fixed", 25, late, model.PenaltyFixed, 2500},
		{"daily", 1.5, late, model.PenaltyDaily, 1500},
		{"percentage", 0.10, late, model.PenaltyPercentage, 2000},
		{"not overdue on the due date", 25, due, model.PenaltyFixed, 0},
		{"before due", 25, date(2024, 1, 15), model.PenaltyDaily, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Penalty(20000, tt.rate, due, tt.current, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Penalty(20000, 1e20, due, late, model.PenaltyFixed)
	assert.ErrorIs(t, err, model.ErrAmountOutOfRange)
}

func TestAccrualOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		kind model.InterestType
	}{
		{"compound daily over a decade", 8, model.InterestCompoundDaily},
		{"compound daily overflowing float", 100, model.InterestCompoundDaily},
		{"compound monthly", 100, model.InterestCompoundMonthly},
		{"compound yearly", 1e6, model.InterestCompoundYearly},
		{"simple", 1e15, model.InterestSimple},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := Terms{
				Principal:    10000,
				InterestRate: tt.rate,
				BorrowDate:   date(2014, 1, 1),
				DueDate:      date(2024, 1, 1),
				InterestType: tt.kind,
				PenaltyType:  model.PenaltyFixed,
			}
			require.NotPanics(t, func() {
				_, err := TotalDebt(terms, date(2024, 1, 1))
				assert.ErrorIs(t, err, model.ErrAmountOutOfRange)
				_, err = PriorityScore(terms, date(2024, 1, 1))
				assert.ErrorIs(t, err, model.ErrAmountOutOfRange)
			})
		})
	}
}

func TestTotalDebt(t *testing.T) {
	terms := Terms{
		Principal:    20000,
		InterestRate: 0.10,
		PenaltyRate:  1,
		BorrowDate:   date(2023, 1, 1),
		DueDate:      date(2023, 3, 5),
		InterestType: model.InterestSimple,
		PenaltyType:  model.PenaltyDaily,
	}
	b, err := TotalDebt(terms, date(2023, 3, 15))
	require.NoError(t, err)

	assert.Equal(t, model.Money(20000), b.Principal)
	assert.Equal(t, model.Money(400), b.Interest)
	assert.Equal(t, model.Money(1000), b.Penalty)
	assert.Equal(t, b.Principal+b.Interest+b.Penalty, b.Total)
}

func TestTermsOf(t *testing.T) {
	tx, err := model.NewAdvancedTransaction("A", "B", 5000, date(2024, 1, 1), date(2024, 2, 1),
		0.02, 0.5, model.InterestCompoundYearly, model.PenaltyPercentage)
	assert.NoError(t, err)

	terms := TermsOf(tx)
	assert.Equal(t, model.Money(5000), terms.Principal)
	assert.Equal(t, model.InterestCompoundYearly, terms.InterestType)
	assert.Equal(t, model.PenaltyPercentage, terms.PenaltyType)
	assert.Equal(t, date(2024, 2, 1), terms.DueDate)
}

func TestPriorityScore(t *testing.T) {
	score := func(terms Terms, asOf time.Time) float64 {
		t.Helper()
		got, err := PriorityScore(terms, asOf)
		require.NoError(t, err)
		return got
	}
	base := Terms{
		Principal:    10000,
		BorrowDate:   date(2024, 1, 1),
		DueDate:      date(2024, 3, 1),
		InterestType: model.InterestSimple,
		PenaltyType:  model.PenaltyFixed,
	}

	// Sixty days before due: time weight 1.
	assert.InDelta(t, 100.0, score(base, date(2024, 1, 1)), 1e-9)

	// Far from due: time weight floors at 0.5.
	far := base
	far.DueDate = date(2025, 1, 1)
	assert.InDelta(t, 50.0, score(far, date(2024, 1, 1)), 1e-9)

	// Thirty days overdue with 10% simple interest: 101.64 * 3 * 2.
	overdue := base
	overdue.DueDate = date(2024, 1, 31)
	overdue.InterestRate = 0.10
	assert.InDelta(t, 609.84, score(overdue, date(2024, 3, 1)), 1e-9)

	// Very late debts cap the time weight at 7.
	veryLate := base
	veryLate.DueDate = date(2024, 1, 2)
	assert.InDelta(t, 700.0, score(veryLate, date(2025, 1, 2)), 1e-9)

	// Non-fixed penalties add a weight.
	daily := base
	daily.PenaltyType = model.PenaltyDaily
	daily.PenaltyRate = 0.2
	assert.InDelta(t, 200.0, score(daily, date(2024, 1, 1)), 1e-9)
}
