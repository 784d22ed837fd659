package path

import (
	"fmt"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

// FromOrderedNodes builds a path that visits nodes in the order given,
// failing with ErrNotAdjacent if two consecutive nodes aren't joined by an
// edge. A circular path also needs an edge from the last node back to the
// first
func FromOrderedNodes(g *graph.Graph, nodes []graph.NodeID, circular bool) (*Path, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyPath
	}

	p := New(g)
	for i, n := range nodes {
		if g.Node(n) == nil {
			return nil, fmt.Errorf("node %d: %w", n, graph.ErrUnknownNode)
		}
		if i == 0 {
			p.nodes = append(p.nodes, n)
			continue
		}

		prev := nodes[i-1]
		e, ok := g.EdgeBetween(prev, n)
		if !ok {
			return nil, fmt.Errorf("%s -> %s: %w", g.Name(prev), g.Name(n), ErrNotAdjacent)
		}
		p.nodes = append(p.nodes, n)
		p.edges = append(p.edges, e)
	}

	// already closed, ex: [A B C A]
	if !circular || p.IsCircular() {
		return p, nil
	}

	first, last := nodes[0], nodes[len(nodes)-1]
	e, ok := g.EdgeBetween(last, first)
	if !ok {
		return nil, fmt.Errorf("closing %s -> %s: %w", g.Name(last), g.Name(first), ErrNotAdjacent)
	}
	p.nodes = append(p.nodes, first)
	p.edges = append(p.edges, e)
	return p, nil
}

// FromUnorderedNodes finds the one order in which nodes form a chain. Nodes
// are added to either end of the growing path until none are left; if the
// last node then leads back to the first, the path is closed into a cycle.
// Any edge between the nodes that the path leaves unused makes it ambiguous.
// Without strandSpecific, a node may be used on either strand
func FromUnorderedNodes(g *graph.Graph, nodes []graph.NodeID, strandSpecific bool) (*Path, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyPath
	}

	// drop repeats, keeping the first occurrence
	seen := make(map[graph.NodeID]bool, len(nodes))
	var remaining []graph.NodeID
	for _, n := range nodes {
		if g.Node(n) == nil {
			return nil, fmt.Errorf("node %d: %w", n, graph.ErrUnknownNode)
		}
		if !seen[n] {
			seen[n] = true
			remaining = append(remaining, n)
		}
	}

	p := New(g)
	for len(remaining) > 0 {
		added := false
		for i, n := range remaining {
			if p.TryAppend(n, strandSpecific) || p.TryPrepend(n, strandSpecific) {
				remaining = append(remaining[:i], remaining[i+1:]...)
				added = true
				break
			}
		}

		if !added {
			return nil, fmt.Errorf("placing %d of %d nodes: %w", len(remaining), len(seen), ErrAmbiguousPath)
		}
	}

	first, last := p.nodes[0], p.nodes[len(p.nodes)-1]
	if e, ok := g.EdgeBetween(last, first); ok && !p.IsCircular() {
		p.nodes = append(p.nodes, first)
		p.edges = append(p.edges, e)
	}

	// another edge between placed nodes means another order would fit too
	if p.HasOtherEdges() {
		return nil, fmt.Errorf("%s: %w", p, ErrAmbiguousPath)
	}
	return p, nil
}
