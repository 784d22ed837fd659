package blast

import (
	"slices"

	"github.com/jjtimmons/asmgraph/internal/search"
)

// Filter drops hits before they're added to their query. Zero values don't
// filter anything
type Filter struct {
	// MinIdentity is the lowest percent identity kept
	MinIdentity float64

	// MinAlignmentLength is the shortest alignment kept
	MinAlignmentLength int

	// MaxEvalue is the largest e-value kept
	MaxEvalue *search.SciNot

	// MinQueryCoverage is the smallest share of the query a hit must cover
	MinQueryCoverage float64

	// DropContained removes hits whose node and query spans both fit inside
	// another hit on the same node
	DropContained bool
}

func (f Filter) keep(q *search.Query, h *search.Hit) bool {
	if h.PercentIdentity < f.MinIdentity || h.AlignmentLength < f.MinAlignmentLength {
		return false
	}
	if f.MaxEvalue != nil && f.MaxEvalue.Less(h.Evalue) {
		return false
	}
	if f.MinQueryCoverage > 0 && q.Len() > 0 {
		if float64(h.QueryLen())/float64(q.Len()) < f.MinQueryCoverage {
			return false
		}
	}
	return true
}

// apply returns the hits that pass the filter, in their original order
func (f Filter) apply(q *search.Query, hits []*search.Hit) []*search.Hit {
	var kept []*search.Hit
	for _, h := range hits {
		if f.keep(q, h) {
			kept = append(kept, h)
		}
	}
	if !f.DropContained {
		return kept
	}

	// sort by node then start, putting the larger of two hits with the same
	// start first, so a contained hit always comes after its container
	sorted := slices.Clone(kept)
	slices.SortStableFunc(sorted, func(a, b *search.Hit) int {
		if a.Node != b.Node {
			return int(a.Node) - int(b.Node)
		}
		if a.NodeStart != b.NodeStart {
			return a.NodeStart - b.NodeStart
		}
		return b.NodeLen() - a.NodeLen()
	})

	contained := make(map[*search.Hit]bool)
	for i, h := range sorted {
		for _, prev := range sorted[:i] {
			if prev.Node == h.Node && !contained[prev] && within(h, prev) {
				contained[h] = true
				break
			}
		}
	}

	var proper []*search.Hit
	for _, h := range kept {
		if !contained[h] {
			proper = append(proper, h)
		}
	}
	return proper
}

// within is true if inner's node and query spans lie inside outer's
func within(inner, outer *search.Hit) bool {
	return inner.NodeStart >= outer.NodeStart && inner.NodeEnd <= outer.NodeEnd &&
		inner.QueryStart >= outer.QueryStart && inner.QueryEnd <= outer.QueryEnd
}
