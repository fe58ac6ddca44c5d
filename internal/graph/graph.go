// Package graph is a directed multigraph whose edges carry either a payload
// (debt graphs) or flow-network fields: capacity, flow, cost and a pointer to
// the paired reverse edge.
//
// Capacities and flows are int64 minor units. Vertices keep insertion order so
// every traversal is deterministic.
package graph

import "errors"

var (
	// ErrVertexNotFound is returned when an algorithm is asked to start or end
	// at a vertex the graph does not contain.
	ErrVertexNotFound = errors.New("graph: vertex not found")

	// ErrNegativeCycle is returned by the flow routines when relaxation does
	// not settle, which only happens if a negative-cost cycle is reachable.
	ErrNegativeCycle = errors.New("graph: negative-cost cycle reachable from source")
)

// Edge is a directed edge From -> To.
type Edge[V comparable, P any] struct {
	From    V
	To      V
	Payload P

	Capacity int64
	Flow     int64
	Cost     float64
	Reverse  *Edge[V, P]

	residual bool
}

// Residual returns the capacity still available on e.
func (e *Edge[V, P]) Residual() int64 {
	return e.Capacity - e.Flow
}

// IsResidual reports whether e is the synthetic reverse half of a flow pair.
func (e *Edge[V, P]) IsResidual() bool {
	return e.residual
}

// push sends amount along e and takes it back from the paired edge.
func (e *Edge[V, P]) push(amount int64) {
	e.Flow += amount
	if e.Reverse != nil {
		e.Reverse.Flow -= amount
	}
}

// Graph is a directed graph backed by adjacency lists.
// The zero value is not usable; call New.
type Graph[V comparable, P any] struct {
	vertices []V
	index    map[V]int
	adj      [][]*Edge[V, P]
	edges    int
}

// New returns an empty graph.
func New[V comparable, P any]() *Graph[V, P] {
	return &Graph[V, P]{index: make(map[V]int)}
}

// AddVertex inserts v and reports whether it was new.
func (g *Graph[V, P]) AddVertex(v V) bool {
	if _, ok := g.index[v]; ok {
		return false
	}
	g.index[v] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	g.adj = append(g.adj, nil)
	return true
}

// VertexCount returns the number of vertices.
func (g *Graph[V, P]) VertexCount() int {
	return len(g.vertices)
}

// EdgeCount returns the number of edges added with AddEdge or AddFlowEdge.
// Reverse halves of flow pairs are not counted.
func (g *Graph[V, P]) EdgeCount() int {
	return g.edges
}

// AddEdge adds From -> To carrying payload. Missing endpoints are added.
// Parallel edges are kept; self-loops are the caller's responsibility.
func (g *Graph[V, P]) AddEdge(from, to V, payload P) *Edge[V, P] {
	e := &Edge[V, P]{From: from, To: to, Payload: payload}
	g.attach(e)
	g.edges++
	return e
}

// AddFlowEdge adds a forward edge with the given capacity and cost plus its
// reverse edge with zero capacity and negated cost, linked to each other.
// Returns the forward edge.
func (g *Graph[V, P]) AddFlowEdge(from, to V, capacity int64, cost float64) *Edge[V, P] {
	fwd := &Edge[V, P]{From: from, To: to, Capacity: capacity, Cost: cost}
	rev := &Edge[V, P]{From: to, To: from, Cost: -cost, residual: true}
	fwd.Reverse, rev.Reverse = rev, fwd
	g.attach(fwd)
	g.attach(rev)
	g.edges++
	return fwd
}

func (g *Graph[V, P]) attach(e *Edge[V, P]) {
	g.AddVertex(e.From)
	g.AddVertex(e.To)
	i := g.index[e.From]
	g.adj[i] = append(g.adj[i], e)
}

// Edge returns the first non-residual edge From -> To.
func (g *Graph[V, P]) Edge(from, to V) (*Edge[V, P], bool) {
	i, ok := g.index[from]
	if !ok {
		return nil, false
	}
	for _, e := range g.adj[i] {
		if e.To == to && !e.residual {
			return e, true
		}
	}
	return nil, false
}

// Neighbors returns the outgoing edges of v, residual edges included, in
// insertion order. The slice is shared; do not modify it.
func (g *Graph[V, P]) Neighbors(v V) []*Edge[V, P] {
	i, ok := g.index[v]
	if !ok {
		return nil
	}
	return g.adj[i]
}
