package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// InterestType selects how interest accrues between the borrow date and the evaluation date.
type InterestType string

const (
	InterestSimple          InterestType = "simple"
	InterestCompoundDaily   InterestType = "compound_daily"
	InterestCompoundMonthly InterestType = "compound_monthly"
	InterestCompoundYearly  InterestType = "compound_yearly"
)

// ParseInterestType accepts the lower-case names used in ledger files.
func ParseInterestType(s string) (InterestType, error) {
	switch t := InterestType(strings.ToLower(strings.TrimSpace(s))); t {
	case InterestSimple, InterestCompoundDaily, InterestCompoundMonthly, InterestCompoundYearly:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInterestType, s)
}

// PenaltyType selects how a late penalty is charged once a debt is overdue.
type PenaltyType string

const (
	PenaltyFixed      PenaltyType = "fixed"
	PenaltyDaily      PenaltyType = "daily"
	PenaltyPercentage PenaltyType = "percentage"
)

// ParsePenaltyType accepts the lower-case names used in ledger files.
func ParsePenaltyType(s string) (PenaltyType, error) {
	switch t := PenaltyType(strings.ToLower(strings.TrimSpace(s))); t {
	case PenaltyFixed, PenaltyDaily, PenaltyPercentage:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPenaltyType, s)
}

// Default instrument kinds, used when a ledger row leaves them blank.
const (
	DefaultInterestType = InterestCompoundDaily
	DefaultPenaltyType  = PenaltyFixed
)

// BasicTransaction says Debtor owes Creditor Amount.
type BasicTransaction struct {
	Debtor   string
	Creditor string
	Amount   Money
}

// NewBasicTransaction returns a validated BasicTransaction.
func NewBasicTransaction(debtor, creditor string, amount Money) (BasicTransaction, error) {
	tx := BasicTransaction{Debtor: debtor, Creditor: creditor, Amount: amount}
	if err := tx.Validate(); err != nil {
		return BasicTransaction{}, err
	}
	return tx, nil
}

// Validate checks that the transaction is well formed.
func (t BasicTransaction) Validate() error {
	switch {
	case strings.TrimSpace(t.Debtor) == "" || strings.TrimSpace(t.Creditor) == "":
		return ErrEmptyParty
	case t.Debtor == t.Creditor:
		return fmt.Errorf("%w: %s", ErrSelfDebt, t.Debtor)
	case t.Amount <= 0:
		return fmt.Errorf("%w: %s", ErrNonPositiveAmount, t.Amount)
	case t.Amount > MaxMoney:
		return fmt.Errorf("%w: %s", ErrAmountOutOfRange, t.Amount)
	}
	return nil
}

func (t BasicTransaction) String() string {
	return fmt.Sprintf("%s -> %s: %s", t.Debtor, t.Creditor, t.Amount)
}

// AdvancedTransaction is a dated obligation that accrues interest from
// BorrowDate and penalties after DueDate.
type AdvancedTransaction struct {
	BasicTransaction

	BorrowDate   time.Time
	DueDate      time.Time
	InterestRate float64 // annual, 0.05 = 5%
	PenaltyRate  float64
	InterestType InterestType
	PenaltyType  PenaltyType
}

// NewAdvancedTransaction returns a validated AdvancedTransaction.
func NewAdvancedTransaction(
	debtor, creditor string,
	amount Money,
	borrowDate, dueDate time.Time,
	interestRate, penaltyRate float64,
	interestType InterestType,
	penaltyType PenaltyType,
) (AdvancedTransaction, error) {
	tx := AdvancedTransaction{
		BasicTransaction: BasicTransaction{Debtor: debtor, Creditor: creditor, Amount: amount},
		BorrowDate:       Truncate(borrowDate),
		DueDate:          Truncate(dueDate),
		InterestRate:     interestRate,
		PenaltyRate:      penaltyRate,
		InterestType:     interestType,
		PenaltyType:      penaltyType,
	}
	if err := tx.Validate(); err != nil {
		return AdvancedTransaction{}, err
	}
	return tx, nil
}

// Validate checks the basic fields plus rates, dates and instrument kinds.
func (t AdvancedTransaction) Validate() error {
	if err := t.BasicTransaction.Validate(); err != nil {
		return err
	}
	for _, r := range []float64{t.InterestRate, t.PenaltyRate} {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return fmt.Errorf("%w: %g", ErrNonFiniteRate, r)
		}
	}
	if t.InterestRate < 0 {
		return fmt.Errorf("%w: interest rate %g", ErrNegativeRate, t.InterestRate)
	}
	if t.PenaltyRate < 0 {
		return fmt.Errorf("%w: penalty rate %g", ErrNegativeRate, t.PenaltyRate)
	}
	if Truncate(t.DueDate).Before(Truncate(t.BorrowDate)) {
		return fmt.Errorf("%w: due %s, borrowed %s", ErrDueBeforeBorrow,
			t.DueDate.Format(DateFormat), t.BorrowDate.Format(DateFormat))
	}
	if _, err := ParseInterestType(string(t.InterestType)); err != nil {
		return err
	}
	if _, err := ParsePenaltyType(string(t.PenaltyType)); err != nil {
		return err
	}
	return nil
}

// Basic returns the principal-only view of t.
func (t AdvancedTransaction) Basic() BasicTransaction {
	return t.BasicTransaction
}

// IsOverdue reports whether asOf is past the due date.
func (t AdvancedTransaction) IsOverdue(asOf time.Time) bool {
	return Truncate(asOf).After(Truncate(t.DueDate))
}

// DaysOverdue returns how many days asOf is past the due date, or 0.
func (t AdvancedTransaction) DaysOverdue(asOf time.Time) int {
	if !t.IsOverdue(asOf) {
		return 0
	}
	return DaysBetween(t.DueDate, asOf)
}
