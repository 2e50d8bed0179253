package diagram

import (
	"cmp"
	"slices"
)

// layout assigns nodes to layers and splits edges into those drawn as
// connectors (one layer forward) and those listed as notes (skipping
// layers, pointing back, or looping).
type layout struct {
	rank   map[string]int
	layers [][]*Node
	drawn  []Edge
	listed []Edge
}

func newLayout(g *Graph) *layout {
	back := backEdges(g)
	rank := longestPathRanks(g, back)

	l := &layout{rank: rank}
	for i, e := range g.Edges {
		if !back[i] && rank[e.To]-rank[e.From] == 1 {
			l.drawn = append(l.drawn, e)
		} else {
			l.listed = append(l.listed, e)
		}
	}

	depth := 0
	for _, r := range rank {
		depth = max(depth, r+1)
	}
	l.layers = make([][]*Node, depth)
	for _, n := range g.Nodes {
		r := rank[n.ID]
		l.layers[r] = append(l.layers[r], n)
	}
	l.orderLayers()
	return l
}

// backEdges marks the edges that close a cycle, found by depth-first search
// from nodes in order of appearance.
func backEdges(g *Graph) map[int]bool {
	out := make(map[string][]int)
	for i, e := range g.Edges {
		out[e.From] = append(out[e.From], i)
	}

	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int)
	back := make(map[int]bool)

	var visit func(id string)
	visit = func(id string) {
		state[id] = onStack
		for _, i := range out[id] {
			to := g.Edges[i].To
			switch state[to] {
			case onStack:
				back[i] = true
			case unvisited:
				visit(to)
			}
		}
		state[id] = done
	}
	for _, n := range g.Nodes {
		if state[n.ID] == unvisited {
			visit(n.ID)
		}
	}
	return back
}

// longestPathRanks places every node one layer below its deepest
// predecessor, ignoring back edges.
func longestPathRanks(g *Graph, back map[int]bool) map[string]int {
	indeg := make(map[string]int)
	out := make(map[string][]string)
	for i, e := range g.Edges {
		if back[i] {
			continue
		}
		indeg[e.To]++
		out[e.From] = append(out[e.From], e.To)
	}

	rank := make(map[string]int, len(g.Nodes))
	var queue []string
	for _, n := range g.Nodes {
		rank[n.ID] = 0
		if indeg[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, to := range out[id] {
			rank[to] = max(rank[to], rank[id]+1)
			indeg[to]--
			if indeg[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	return rank
}

// orderLayers sorts each layer by the mean position of its predecessors in
// the layer above, which keeps most connectors from crossing.
func (l *layout) orderLayers() {
	preds := make(map[string][]string)
	for _, e := range l.drawn {
		preds[e.To] = append(preds[e.To], e.From)
	}

	for r := 1; r < len(l.layers); r++ {
		above := make(map[string]int)
		for i, n := range l.layers[r-1] {
			above[n.ID] = i
		}
		key := make(map[string]float64)
		for i, n := range l.layers[r] {
			ps := preds[n.ID]
			if len(ps) == 0 {
				key[n.ID] = float64(i)
				continue
			}
			sum := 0
			for _, p := range ps {
				sum += above[p]
			}
			key[n.ID] = float64(sum) / float64(len(ps))
		}
		slices.SortStableFunc(l.layers[r], func(a, b *Node) int {
			return cmp.Compare(key[a.ID], key[b.ID])
		})
	}
}
