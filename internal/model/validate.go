package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNonPositiveAmount   = errors.New("amount must be greater than zero")
	ErrNegativeRate        = errors.New("rate cannot be negative")
	ErrNonFiniteRate       = errors.New("rate must be a finite number")
	ErrAmountOutOfRange    = errors.New("amount out of range")
	ErrDueBeforeBorrow     = errors.New("due date cannot be before borrow date")
	ErrEmptyParty          = errors.New("debtor and creditor must be named")
	ErrSelfDebt            = errors.New("debtor and creditor must differ")
	ErrUnknownInterestType = errors.New("unknown interest type")
	ErrUnknownPenaltyType  = errors.New("unknown penalty type")
)

// ValidationError describes one malformed transaction in a batch.
type ValidationError struct {
	Index int // position in the input slice
	Err   error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("transaction %d: %v", e.Index, e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidateBasic checks every transaction and reports all failures.
func ValidateBasic(txs []BasicTransaction) []ValidationError {
	var errs []ValidationError
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			errs = append(errs, ValidationError{Index: i, Err: err})
		}
	}
	return errs
}

// ValidateAdvanced checks every transaction and reports all failures.
func ValidateAdvanced(txs []AdvancedTransaction) []ValidationError {
	var errs []ValidationError
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			errs = append(errs, ValidationError{Index: i, Err: err})
		}
	}
	return errs
}

// Join folds validation errors into a single error, or nil if there are none.
// The result still matches the underlying sentinels with errors.Is.
func Join(verrs []ValidationError) error {
	if len(verrs) == 0 {
		return nil
	}
	if len(verrs) == 1 {
		return fmt.Errorf("validation failed: %w", verrs[0])
	}
	msgs := make([]string, len(verrs))
	errs := make([]error, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
		errs[i] = ve
	}
	return &batchError{msg: "validation failed: " + strings.Join(msgs, "; "), errs: errs}
}

type batchError struct {
	msg  string
	errs []error
}

func (e *batchError) Error() string   { return e.msg }
func (e *batchError) Unwrap() []error { return e.errs }
