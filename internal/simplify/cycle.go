package simplify

import (
	"github.com/cleared-dev/settle/internal/collections"
	"github.com/cleared-dev/settle/internal/graph"
	"github.com/cleared-dev/settle/internal/model"
)

const maxCycleRounds = 50

// cycleScore ranks a debt cycle: more transactions cleared first, then the
// larger amount cancelled.
type cycleScore struct {
	eliminated int
	amount     model.Money
}

func (s cycleScore) better(o cycleScore) bool {
	if s.eliminated != o.eliminated {
		return s.eliminated > o.eliminated
	}
	return s.amount > o.amount
}

// eliminateCycles repeatedly cancels the best debt cycle, then nets the
// remaining obligations. Each round works on a fresh copy; txs is not modified.
func eliminateCycles(txs []model.BasicTransaction, o options) []model.BasicTransaction {
	work := make([]model.BasicTransaction, len(txs))
	copy(work, txs)

	rounds := o.maxCycleIterations
	if rounds == 0 {
		rounds = min(2*len(work), maxCycleRounds)
	}

	done := 0
	for ; done < rounds && len(work) > 1; done++ {
		cycle, score, ok := bestCycle(work)
		if !ok {
			break
		}
		work = cancelCycle(work, cycle, score.amount)
	}
	o.log.Debug().Int("rounds", done).Int("remaining", len(work)).Msg("cycles eliminated")

	return netSettle(NetBalances(work))
}

type candidate struct {
	edges []int
	score cycleScore
}

// bestCycle returns the indices into work of the highest scoring cycle.
// Equal scores resolve to the cycle found first.
func bestCycle(work []model.BasicTransaction) ([]int, cycleScore, bool) {
	g := graph.New[string, int]()
	for i, tx := range work {
		g.AddEdge(tx.Debtor, tx.Creditor, i)
	}

	ranked := collections.NewPriorityQueue(func(a, b candidate) bool {
		return a.score.better(b.score)
	})
	for _, edges := range g.FindCyclesWithEdges() {
		if len(edges) < 2 {
			continue
		}
		idx := make([]int, len(edges))
		minAmount := work[edges[0].Payload].Amount
		for i, e := range edges {
			idx[i] = e.Payload
			minAmount = model.MinMoney(minAmount, work[e.Payload].Amount)
		}
		score := cycleScore{amount: minAmount}
		for _, i := range idx {
			if work[i].Amount == minAmount {
				score.eliminated++
			}
		}
		ranked.Push(candidate{edges: idx, score: score})
	}

	best, ok := ranked.Pop()
	return best.edges, best.score, ok
}

// cancelCycle subtracts amount from every transaction on the cycle and drops
// the ones that reach zero.
func cancelCycle(work []model.BasicTransaction, cycle []int, amount model.Money) []model.BasicTransaction {
	onCycle := collections.NewSet(cycle...)
	next := make([]model.BasicTransaction, 0, len(work))
	for i, tx := range work {
		if onCycle.Has(i) {
			tx.Amount -= amount
		}
		if tx.Amount > 0 {
			next = append(next, tx)
		}
	}
	return next
}
