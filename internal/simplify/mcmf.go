package simplify

import (
	"fmt"
	"math"

	"github.com/cleared-dev/settle/internal/graph"
	"github.com/cleared-dev/settle/internal/model"
)

// minCostMaxFlow builds source -> debtor -> creditor -> sink and lets the
// flow solver decide who pays whom. Vertices 0..n-1 are the open
// participants in name order; n is the source and n+1 the sink.
func minCostMaxFlow(b Balances, o options) ([]model.BasicTransaction, error) {
	names := b.Open()
	n := len(names)
	if n == 0 {
		return nil, nil
	}
	source, sink := n, n+1

	g := graph.New[int, struct{}]()
	for i := 0; i < n+2; i++ {
		g.AddVertex(i)
	}

	var totalDebt, totalCredit model.Money
	for i, name := range names {
		switch v := b[name]; {
		case v < 0:
			totalDebt -= v
			g.AddFlowEdge(source, i, int64(-v), 0)
		case v > 0:
			totalCredit += v
			g.AddFlowEdge(i, sink, int64(v), 0)
		}
	}
	limit := model.MinMoney(totalDebt, totalCredit)

	for d, debtor := range names {
		dv := b[debtor]
		if dv >= 0 {
			continue
		}
		for c, creditor := range names {
			cv := b[creditor]
			if cv <= 0 {
				continue
			}
			cost := o.edgeCost(debtor, creditor)
			if cost < 0 || math.IsNaN(cost) || math.IsInf(cost, 0) {
				return nil, fmt.Errorf("%w: %s -> %s costs %g", ErrNegativeCost, debtor, creditor, cost)
			}
			capacity := model.MinMoney(model.MinMoney(-dv, cv), limit)
			g.AddFlowEdge(d, c, int64(capacity), cost)
		}
	}

	res, err := g.MinCostMaxFlow(source, sink)
	if err != nil {
		return nil, err
	}
	o.log.Debug().Int("participants", n).
		Int("vertices", g.VertexCount()).Int("edges", g.EdgeCount()).
		Int64("flow", res.Flow).
		Float64("cost", res.Cost).Int("augmentations", res.Augmentations).Msg("mcmf solved")

	var out []model.BasicTransaction
	for d := 0; d < n; d++ {
		for _, e := range g.Neighbors(d) {
			if e.IsResidual() || e.To >= n || e.Flow <= 0 {
				continue
			}
			out = append(out, model.BasicTransaction{
				Debtor:   names[d],
				Creditor: names[e.To],
				Amount:   model.Money(e.Flow),
			})
		}
	}
	return out, nil
}
