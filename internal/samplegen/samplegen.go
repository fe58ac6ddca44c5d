// Package samplegen produces random ledgers for benchmarks and demos.
package samplegen

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cleared-dev/settle/internal/model"
)

var (
	ErrTooFewPeople  = errors.New("need at least two people")
	ErrMaxAmount     = errors.New("max amount out of range")
	ErrNegativeCount = errors.New("count cannot be negative")
)

var (
	interestTypes = []model.InterestType{
		model.InterestSimple,
		model.InterestCompoundDaily,
		model.InterestCompoundMonthly,
		model.InterestCompoundYearly,
	}
	penaltyTypes = []model.PenaltyType{
		model.PenaltyFixed,
		model.PenaltyDaily,
		model.PenaltyPercentage,
	}
)

// Generator draws transactions from a seeded source, so equal seeds give equal ledgers.
type Generator struct {
	rng       *rand.Rand
	maxAmount int64
}

// New returns a Generator. maxAmount is in whole currency units.
func New(seed uint64, maxAmount int64) (*Generator, error) {
	if maxAmount < 1 || maxAmount > int64(model.MaxMoney/100) {
		return nil, fmt.Errorf("%w: %d", ErrMaxAmount, maxAmount)
	}
	return &Generator{
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		maxAmount: maxAmount,
	}, nil
}

// Names returns Person_0 .. Person_{n-1}.
func Names(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Person_%d", i)
	}
	return names
}

// Basic returns count random debts among people participants.
// Amounts are uniform between 1 and the max amount.
func (g *Generator) Basic(people, count int) ([]model.BasicTransaction, error) {
	if err := checkSize(people, count); err != nil {
		return nil, err
	}
	names := Names(people)
	txs := make([]model.BasicTransaction, 0, count)
	for range count {
		d, c := g.pair(people)
		tx, err := model.NewBasicTransaction(names[d], names[c], g.amount())
		if err != nil {
			return nil, fmt.Errorf("generating transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Advanced returns count random dated obligations. Borrow dates fall within
// the 300 days before asOf and terms run 30 to 365 days, so some are overdue.
func (g *Generator) Advanced(people, count int, asOf time.Time) ([]model.AdvancedTransaction, error) {
	if err := checkSize(people, count); err != nil {
		return nil, err
	}
	names := Names(people)
	asOf = model.Truncate(asOf)
	txs := make([]model.AdvancedTransaction, 0, count)
	for range count {
		d, c := g.pair(people)
		borrow := asOf.AddDate(0, 0, -g.rng.IntN(301))
		due := borrow.AddDate(0, 0, 30+g.rng.IntN(336))

		penaltyRate := 0.0
		if g.rng.Float64() < 0.3 {
			penaltyRate = round(g.rng.Float64()*30, 2)
		}

		tx, err := model.NewAdvancedTransaction(
			names[d], names[c], g.amount(), borrow, due,
			round(0.01+g.rng.Float64()*0.14, 4), penaltyRate,
			interestTypes[g.rng.IntN(len(interestTypes))],
			penaltyTypes[g.rng.IntN(len(penaltyTypes))],
		)
		if err != nil {
			return nil, fmt.Errorf("generating transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func checkSize(people, count int) error {
	if people < 2 {
		return fmt.Errorf("%w: %d", ErrTooFewPeople, people)
	}
	if count < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	return nil
}

// pair picks two distinct participant indexes.
func (g *Generator) pair(people int) (int, int) {
	d := g.rng.IntN(people)
	c := g.rng.IntN(people - 1)
	if c >= d {
		c++
	}
	return d, c
}

func (g *Generator) amount() model.Money {
	return model.Money(100 + g.rng.Int64N((g.maxAmount-1)*100+1))
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}
