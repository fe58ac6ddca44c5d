package graph

// Vertex states during cycle search.
const (
	white = iota // not visited
	gray         // on the recursion stack
	black        // fully explored
)

// FindCyclesWithEdges runs a depth-first search from every unvisited vertex
// and, for each back-edge u -> v into a vertex still on the recursion stack,
// records the edges of the current path from v to u plus the back-edge.
//
// The result is not exhaustive and may repeat a cycle reached along different
// paths; callers rank the cycles they get. Residual edges are ignored.
func (g *Graph[V, P]) FindCyclesWithEdges() [][]*Edge[V, P] {
	state := make([]int, len(g.vertices))
	var (
		path   []*Edge[V, P]
		cycles [][]*Edge[V, P]
	)

	var visit func(u int)
	visit = func(u int) {
		state[u] = gray
		for _, e := range g.adj[u] {
			if e.residual {
				continue
			}
			v := g.index[e.To]
			path = append(path, e)
			switch state[v] {
			case white:
				visit(v)
			case gray:
				if c := cycleFrom(path, e.To); c != nil {
					cycles = append(cycles, c)
				}
			}
			path = path[:len(path)-1]
		}
		state[u] = black
	}

	for i := range g.vertices {
		if state[i] == white {
			visit(i)
		}
	}
	return cycles
}

// cycleFrom copies the suffix of path that starts at the first edge leaving start.
func cycleFrom[V comparable, P any](path []*Edge[V, P], start V) []*Edge[V, P] {
	for i, e := range path {
		if e.From == start {
			out := make([]*Edge[V, P], len(path)-i)
			copy(out, path[i:])
			return out
		}
	}
	return nil
}
