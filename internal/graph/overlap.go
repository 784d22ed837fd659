package graph

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/jjtimmons/asmgraph/internal/metrics"
)

// OverlapRange bounds the overlap lengths tried when detecting an exact
// overlap between two nodes
type OverlapRange struct {
	Min, Max int
}

// TestExactOverlap reports whether the last k bases of start equal the first
// k bases of end
func (g *Graph) TestExactOverlap(start, end NodeID, k int) bool {
	offset := g.Len(start) - k
	for j := 0; j < k; j++ {
		if g.BaseAt(start, offset+j) != g.BaseAt(end, j) {
			return false
		}
	}
	return true
}

// DetectExactOverlap looks for an overlap length k in the range such that
// start ends with the first k bases of end.
//
// The range is clamped to the shorter node. If the shorter node is below
// r.Min, or either sequence is missing, there's nothing to search and the
// result is 0. When several k match, the one found first from a random
// starting point (wrapping around the range) wins so there's no bias toward
// short or long overlaps. rnd may be nil to use the global source
func (g *Graph) DetectExactOverlap(start, end NodeID, r OverlapRange, rnd *rand.Rand) int {
	if g.SequenceMissing(start) || g.SequenceMissing(end) {
		return 0
	}

	shorter := min(g.Len(start), g.Len(end))
	if shorter < r.Min {
		return 0
	}
	lo := min(shorter, r.Min)
	hi := min(shorter, r.Max)
	if hi < lo {
		return 0
	}

	span := hi - lo + 1
	k := lo
	if rnd != nil {
		k += rnd.IntN(span)
	} else {
		k += rand.IntN(span)
	}

	for i := 0; i < span; i++ {
		if g.TestExactOverlap(start, end, k) {
			return k
		}

		k++
		if k > hi {
			k = lo
		}
	}
	return 0
}

// AutoDetectOverlap finds the exact overlap of an edge and stores it on the
// edge and its twin. The kind is AutoDetectedExactOverlap even when nothing
// matched and the overlap is 0
func (g *Graph) AutoDetectOverlap(id EdgeID, r OverlapRange, rnd *rand.Rand) (int, error) {
	e := g.Edge(id)
	if e == nil {
		return 0, fmt.Errorf("detecting overlap of edge %d: %w", id, ErrUnknownEdge)
	}

	overlap := g.DetectExactOverlap(e.start, e.end, r, rnd)
	if overlap > 0 {
		metrics.OverlapsDetected.WithLabelValues("found").Inc()
	} else {
		metrics.OverlapsDetected.WithLabelValues("none").Inc()
	}

	return overlap, g.SetOverlap(id, overlap, AutoDetectedExactOverlap)
}

// AutoDetectAllOverlaps detects the overlap of every edge whose overlap is
// unknown. Edges are visited once per twin pair (the positive edge) in
// creation order. It returns the number of edges given a non-zero overlap
func (g *Graph) AutoDetectAllOverlaps(ctx context.Context, r OverlapRange, rnd *rand.Rand) (int, error) {
	found := 0
	for _, id := range g.Edges() {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		e := g.edges[id]
		if e.kind != UnknownOverlap || !g.IsPositiveEdge(id) {
			continue
		}

		overlap, err := g.AutoDetectOverlap(id, r, rnd)
		if err != nil {
			return found, err
		}
		if overlap > 0 {
			found++
		}
	}
	return found, nil
}
