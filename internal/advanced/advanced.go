// Package advanced runs the simplification strategies over dated,
// interest-bearing obligations. Each obligation is first valued at an
// evaluation date (principal plus accrued interest and penalties), the
// valued debts are simplified like plain ones, and the resulting transfers
// are returned as closed instruments dated at the evaluation date.
package advanced

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/cleared-dev/settle/internal/finance"
	"github.com/cleared-dev/settle/internal/model"
	"github.com/cleared-dev/settle/internal/simplify"
)

// Accrual is one obligation valued at the evaluation date.
type Accrual struct {
	Transaction model.AdvancedTransaction
	Breakdown   finance.Breakdown
	Priority    float64
	DaysOverdue int
}

// Result is the outcome of one Simplify call.
type Result struct {
	RunID    uuid.UUID
	Strategy simplify.Strategy
	AsOf     time.Time

	// Settlements are the transfers as closed instruments: both dates at
	// AsOf and zero rates.
	Settlements []model.AdvancedTransaction
	// Basic holds the same transfers without dates.
	Basic []model.BasicTransaction
	// Statistics is set only for the dynamic programming strategy.
	Statistics *Statistics
}

// Option configures a Simplifier.
type Option func(*Simplifier)

// WithLogger sets the logger. Engine debug output goes to the same logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Simplifier) { s.log = log }
}

// WithEngineOptions passes extra options to the underlying strategy,
// for example simplify.WithMaxStates.
func WithEngineOptions(opts ...simplify.Option) Option {
	return func(s *Simplifier) { s.engineOpts = append(s.engineOpts, opts...) }
}

// Simplifier values a fixed set of obligations at one date and simplifies them.
type Simplifier struct {
	strategy   simplify.Strategy
	asOf       time.Time
	accruals   []Accrual
	runID      uuid.UUID
	log        zerolog.Logger
	engineOpts []simplify.Option
}

// New validates txs and values each of them at asOf.
func New(strategy simplify.Strategy, txs []model.AdvancedTransaction, asOf time.Time, opts ...Option) (*Simplifier, error) {
	if !slices.Contains(simplify.All(), strategy) {
		return nil, fmt.Errorf("%w: %s", simplify.ErrUnknownStrategy, strategy)
	}
	if err := model.Join(model.ValidateAdvanced(txs)); err != nil {
		return nil, err
	}

	s := &Simplifier{
		strategy: strategy,
		asOf:     model.Truncate(asOf),
		runID:    uuid.New(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("run_id", s.runID.String()).Str("strategy", strategy.String()).Logger()

	s.accruals = make([]Accrual, len(txs))
	for i, tx := range txs {
		terms := finance.TermsOf(tx)
		b, err := finance.TotalDebt(terms, s.asOf)
		if err != nil {
			return nil, fmt.Errorf("valuing transaction %d: %w", i, err)
		}
		priority, err := finance.PriorityScore(terms, s.asOf)
		if err != nil {
			return nil, fmt.Errorf("valuing transaction %d: %w", i, err)
		}
		s.accruals[i] = Accrual{
			Transaction: tx,
			Breakdown:   b,
			Priority:    priority,
			DaysOverdue: tx.DaysOverdue(s.asOf),
		}
	}
	return s, nil
}

// RunID identifies this simplifier in logs and run records.
func (s *Simplifier) RunID() uuid.UUID {
	return s.runID
}

// AsOf returns the evaluation date.
func (s *Simplifier) AsOf() time.Time {
	return s.asOf
}

// Accrued returns every obligation valued at the evaluation date, in input order.
func (s *Simplifier) Accrued() []Accrual {
	out := make([]Accrual, len(s.accruals))
	copy(out, s.accruals)
	return out
}

// Basic returns each obligation as a plain debt of its accrued total.
func (s *Simplifier) Basic() []model.BasicTransaction {
	out := make([]model.BasicTransaction, len(s.accruals))
	for i, a := range s.accruals {
		out[i] = model.BasicTransaction{
			Debtor:   a.Transaction.Debtor,
			Creditor: a.Transaction.Creditor,
			Amount:   a.Breakdown.Total,
		}
	}
	return out
}

// Simplify runs the configured strategy on the accrued debts.
func (s *Simplifier) Simplify() (*Result, error) {
	opts := append([]simplify.Option{simplify.WithLogger(s.log)}, s.engineOpts...)
	if s.strategy == simplify.MinCostMaxFlow {
		opts = append(opts, simplify.WithEdgeCost(PriorityCost(s.accruals)))
	}

	basic, err := s.strategy.Simplify(s.Basic(), opts...)
	if err != nil {
		return nil, fmt.Errorf("simplifying %d obligations: %w", len(s.accruals), err)
	}

	res := &Result{
		RunID:       s.runID,
		Strategy:    s.strategy,
		AsOf:        s.asOf,
		Basic:       basic,
		Settlements: make([]model.AdvancedTransaction, len(basic)),
	}
	for i, b := range basic {
		res.Settlements[i] = s.closed(b)
	}
	if s.strategy == simplify.DynamicProgramming {
		res.Statistics = s.statistics(basic)
	}

	s.log.Info().Int("obligations", len(s.accruals)).Int("settlements", len(basic)).Msg("simplified")
	return res, nil
}

// closed turns a transfer into a settlement instrument. Interest and penalty
// kinds are copied from the highest priority obligation between the same
// pair, for display only.
func (s *Simplifier) closed(b model.BasicTransaction) model.AdvancedTransaction {
	it, pt := model.DefaultInterestType, model.DefaultPenaltyType
	best := -1.0
	for _, a := range s.accruals {
		t := a.Transaction
		if t.Debtor == b.Debtor && t.Creditor == b.Creditor && a.Priority > best {
			it, pt, best = t.InterestType, t.PenaltyType, a.Priority
		}
	}
	return model.AdvancedTransaction{
		BasicTransaction: b,
		BorrowDate:       s.asOf,
		DueDate:          s.asOf,
		InterestType:     it,
		PenaltyType:      pt,
	}
}
