package simplify

import "github.com/rs/zerolog"

// EdgeCost prices one unit of flow on the debtor -> creditor edge of the
// min-cost max-flow network. It must return a non-negative number.
type EdgeCost func(debtor, creditor string) float64

// UnitCost charges 1 for every person-to-person edge.
func UnitCost(string, string) float64 { return 1 }

// Option configures a Simplify call.
type Option func(*options)

type options struct {
	log                zerolog.Logger
	maxStates          int
	maxCycleIterations int
	edgeCost           EdgeCost
}

func newOptions(opts []Option) options {
	o := options{
		log:      zerolog.Nop(),
		edgeCost: UnitCost,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sends debug output to log.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMaxStates caps the dynamic programming memo table. Zero means no cap.
func WithMaxStates(n int) Option {
	return func(o *options) { o.maxStates = n }
}

// WithMaxCycleIterations overrides the cycle elimination round limit,
// which otherwise is min(2 * transactions, 50). A negative value skips
// cycle cancellation and only nets balances.
func WithMaxCycleIterations(n int) Option {
	return func(o *options) { o.maxCycleIterations = n }
}

// WithEdgeCost replaces the min-cost max-flow cost policy.
func WithEdgeCost(cost EdgeCost) Option {
	return func(o *options) {
		if cost != nil {
			o.edgeCost = cost
		}
	}
}
