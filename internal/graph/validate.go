package graph

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of the graph and returns every
// violation found, joined. A nil error means:
//   - every node's twin is a different node whose twin is the node itself
//   - twins share a base name and have opposite strands
//   - every edge is listed by both its endpoints, and node lists only hold
//     live edges touching the node
//   - every edge A -> B has a twin RC(B) -> RC(A) with the same overlap
func (g *Graph) Validate() error {
	var errs []error

	for i, n := range g.nodes {
		id := NodeID(i)
		twin := g.Node(n.rc)
		switch {
		case twin == nil:
			errs = append(errs, fmt.Errorf("node %s has no reverse complement", n.name))
		case n.rc == id:
			errs = append(errs, fmt.Errorf("node %s is its own reverse complement", n.name))
		case twin.rc != id:
			errs = append(errs, fmt.Errorf("node %s: reverse complement of %s is %s", n.name, twin.name, g.Name(twin.rc)))
		case twin.NameWithoutSign() != n.NameWithoutSign() || twin.Sign() == n.Sign():
			errs = append(errs, fmt.Errorf("node %s is paired with %s", n.name, twin.name))
		}

		for _, e := range n.edges {
			edge := g.Edge(e)
			if edge == nil {
				errs = append(errs, fmt.Errorf("node %s lists removed edge %d", n.name, e))
				continue
			}
			if edge.start != id && edge.end != id {
				errs = append(errs, fmt.Errorf("node %s lists edge %s it isn't on", n.name, g.EdgeName(e)))
			}
		}
	}

	for i, e := range g.edges {
		if e == nil {
			continue
		}
		id := EdgeID(i)
		name := g.EdgeName(id)

		if !g.nodes[e.start].hasEdge(id) || !g.nodes[e.end].hasEdge(id) {
			errs = append(errs, fmt.Errorf("edge %s is missing from an endpoint", name))
		}
		if got, ok := g.pairs[[2]NodeID{e.start, e.end}]; !ok || got != id {
			errs = append(errs, fmt.Errorf("edge %s is not indexed", name))
		}

		twin := g.Edge(e.rc)
		if twin == nil {
			errs = append(errs, fmt.Errorf("edge %s has no reverse complement", name))
			continue
		}
		if twin.start != g.RC(e.end) || twin.end != g.RC(e.start) {
			errs = append(errs, fmt.Errorf("edge %s is paired with %s", name, g.EdgeName(e.rc)))
		}
		if twin.rc != id {
			errs = append(errs, fmt.Errorf("edge %s: twin %s points elsewhere", name, g.EdgeName(e.rc)))
		}
		if twin.overlap != e.overlap {
			errs = append(errs, fmt.Errorf("edge %s overlap %d, twin overlap %d", name, e.overlap, twin.overlap))
		}
	}

	return errors.Join(errs...)
}
