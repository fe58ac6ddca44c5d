package graph

import (
	"fmt"
	"math"

	"github.com/cleared-dev/settle/internal/collections"
)

// costEpsilon absorbs float noise when comparing path costs.
const costEpsilon = 1e-9

// FlowResult summarizes a min-cost max-flow run.
type FlowResult struct {
	Flow          int64
	Cost          float64
	Augmentations int
}

// ShortestPath finds the cheapest source -> sink path through edges with
// positive residual capacity using the queue-based Bellman-Ford variant
// (SPFA), which tolerates the negative costs of reverse edges.
//
// It returns the path's edges in order, or nil when sink is unreachable.
func (g *Graph[V, P]) ShortestPath(source, sink V) ([]*Edge[V, P], error) {
	s, ok := g.index[source]
	if !ok {
		return nil, fmt.Errorf("%w: source %v", ErrVertexNotFound, source)
	}
	t, ok := g.index[sink]
	if !ok {
		return nil, fmt.Errorf("%w: sink %v", ErrVertexNotFound, sink)
	}

	n := len(g.vertices)
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	via := make([]*Edge[V, P], n)
	inQueue := make([]bool, n)
	enqueued := make([]int, n)

	var q collections.Queue[int]
	dist[s] = 0
	q.Push(s)
	inQueue[s] = true
	enqueued[s] = 1

	for q.Len() > 0 {
		u, _ := q.Pop()
		inQueue[u] = false
		for _, e := range g.adj[u] {
			if e.Residual() <= 0 {
				continue
			}
			v := g.index[e.To]
			if d := dist[u] + e.Cost; d < dist[v]-costEpsilon {
				dist[v] = d
				via[v] = e
				if !inQueue[v] {
					enqueued[v]++
					if enqueued[v] > n {
						return nil, ErrNegativeCycle
					}
					q.Push(v)
					inQueue[v] = true
				}
			}
		}
	}

	if math.IsInf(dist[t], 1) {
		return nil, nil
	}
	var path []*Edge[V, P]
	for v := t; v != s; {
		e := via[v]
		path = append(path, e)
		v = g.index[e.From]
		if len(path) > n {
			return nil, ErrNegativeCycle
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// MinCostMaxFlow pushes as much flow as possible from source to sink,
// always augmenting along a currently cheapest residual path. Edge flows are
// left on the graph for the caller to read.
func (g *Graph[V, P]) MinCostMaxFlow(source, sink V) (FlowResult, error) {
	var res FlowResult
	for {
		path, err := g.ShortestPath(source, sink)
		if err != nil {
			return res, err
		}
		if path == nil {
			return res, nil
		}

		bottleneck := int64(math.MaxInt64)
		for _, e := range path {
			bottleneck = min(bottleneck, e.Residual())
		}
		var pathCost float64
		for _, e := range path {
			e.push(bottleneck)
			pathCost += e.Cost
		}
		res.Flow += bottleneck
		res.Cost += float64(bottleneck) * pathCost
		res.Augmentations++
	}
}
