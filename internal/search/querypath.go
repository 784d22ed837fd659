package search

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/jjtimmons/asmgraph/internal/path"
)

// QueryPath is a path through the graph along with the query's hits that lie
// on it in order. It doesn't change after NewQueryPath
type QueryPath struct {
	path  *path.Path
	query *Query
	hits  []*Hit
}

// NewQueryPath follows p node by node, taking each node's hits in order of
// query start. A hit is kept if it falls within the path's clipped start and
// end on the first and last node, and if it starts later in the query than
// the last hit kept
func NewQueryPath(p *path.Path, q *Query) *QueryPath {
	qp := &QueryPath{path: p, query: q}
	all := q.Hits()
	nodes := p.Nodes()

	var prev *Hit
	for i, n := range nodes {
		var onNode []*Hit
		for _, h := range all {
			if h.Node == n {
				onNode = append(onNode, h)
			}
		}
		slices.SortStableFunc(onNode, func(a, b *Hit) int {
			return a.QueryStart - b.QueryStart
		})

		for _, h := range onNode {
			if i == 0 && h.NodeStart < p.StartPosition() {
				continue
			}
			if i == len(nodes)-1 && h.NodeEnd > p.EndPosition() {
				continue
			}
			if prev == nil || h.QueryStart > prev.QueryStart {
				qp.hits = append(qp.hits, h)
				prev = h
			}
		}
	}
	return qp
}

// Path returns the path
func (qp *QueryPath) Path() *path.Path { return qp.path }

// Query returns the query
func (qp *QueryPath) Query() *Query { return qp.query }

// Hits returns the kept hits in path order
func (qp *QueryPath) Hits() []*Hit {
	return append([]*Hit(nil), qp.hits...)
}

// MeanPercentIdentity averages the hits' identities weighted by alignment
// length, 0 without hits
func (qp *QueryPath) MeanPercentIdentity() float64 {
	identities := make([]float64, len(qp.hits))
	lengths := make([]float64, len(qp.hits))
	total := 0.0
	for i, h := range qp.hits {
		identities[i] = h.PercentIdentity
		lengths[i] = float64(h.AlignmentLength)
		total += lengths[i]
	}

	if total == 0 {
		return 0
	}
	return stat.Mean(identities, lengths)
}

// EvalueProduct multiplies the hits' e-values. A hit that overlaps its
// neighbors in the chain has its e-value raised to the power
// (len - removed) / len, where len is its node span and removed is half of
// each overlap with the previous and next hit, so the shared region isn't
// counted twice. With no hits the product is 1
func (qp *QueryPath) EvalueProduct() SciNot {
	product := NewSciNot(1, 0)
	for i, h := range qp.hits {
		evalue := h.Evalue

		removed := 0.0
		if i > 0 {
			if overlap := qp.HitOverlap(qp.hits[i-1], h); overlap > 0 {
				removed += float64(overlap) / 2
			}
		}
		if i < len(qp.hits)-1 {
			if overlap := qp.HitOverlap(h, qp.hits[i+1]); overlap > 0 {
				removed += float64(overlap) / 2
			}
		}
		if removed > 0 {
			span := float64(h.NodeLen())
			evalue = evalue.Pow((span - removed) / span)
		}

		product = product.Mul(evalue)
	}
	return product
}

// HitOverlap is the number of bases two hits share. Hits on the same node are
// compared directly. When an edge leads from a's node to b's node, b's span is
// shifted into a's node coordinates first. Hits on other nodes don't overlap
func (qp *QueryPath) HitOverlap(a, b *Hit) int {
	g := qp.path.Graph()

	var aStart, aEnd, bStart, bEnd int
	if a.Node == b.Node {
		aStart, aEnd = a.NodeStart-1, a.NodeEnd
		bStart, bEnd = b.NodeStart-1, b.NodeEnd
	} else if e, ok := g.EdgeBetween(a.Node, b.Node); ok {
		shift := g.Len(a.Node) - g.Edge(e).Overlap()
		aStart, aEnd = a.NodeStart, a.NodeEnd
		bStart, bEnd = b.NodeStart+shift, b.NodeEnd+shift
	} else {
		return 0
	}

	return max(0, min(aEnd, bEnd)-max(aStart, bStart))
}

// HitQueryLength is the span of the query from the first hit's start to the
// last hit's end, in bases: protein spans are tripled. 0 without hits
func (qp *QueryPath) HitQueryLength() int {
	if len(qp.hits) == 0 {
		return 0
	}

	length := qp.QueryEnd() - qp.QueryStart() + 1
	if qp.query.Type() == Protein {
		length *= 3
	}
	return length
}

// RelativeLengthDiscrepancy is how much longer (positive) or shorter
// (negative) the path is than the query span its hits cover, as a fraction
// of that span. math.MaxFloat64 without hits
func (qp *QueryPath) RelativeLengthDiscrepancy() float64 {
	hql := qp.HitQueryLength()
	if hql == 0 {
		return math.MaxFloat64
	}
	return float64(qp.path.Len()-hql) / float64(hql)
}

// RelativePathLength is the path length over the hit query length, where 1
// is a perfect match. 0 without hits
func (qp *QueryPath) RelativePathLength() float64 {
	hql := qp.HitQueryLength()
	if hql == 0 {
		return 0
	}
	return float64(qp.path.Len()) / float64(hql)
}

// AbsoluteLengthDifference is the path length minus the hit query length
func (qp *QueryPath) AbsoluteLengthDifference() int {
	return qp.path.Len() - qp.HitQueryLength()
}

// PathQueryCoverage is the share of the query between the first hit's start
// and the last hit's end. 0 without hits
func (qp *QueryPath) PathQueryCoverage() float64 {
	if len(qp.hits) == 0 || qp.query.Len() == 0 {
		return 0
	}

	length := float64(qp.query.Len())
	missing := float64(qp.QueryStart()-1) + length - float64(qp.QueryEnd())
	return 1 - missing/length
}

// HitsQueryCoverage is the share of the query covered by the path's hits
func (qp *QueryPath) HitsQueryCoverage() float64 {
	if len(qp.hits) == 0 {
		return 0
	}
	return qp.query.FractionCoveredByHits(qp.hits)
}

// TotalMismatches sums the hits' mismatches
func (qp *QueryPath) TotalMismatches() int {
	total := 0
	for _, h := range qp.hits {
		total += h.Mismatches
	}
	return total
}

// TotalGapOpens sums the hits' gap openings
func (qp *QueryPath) TotalGapOpens() int {
	total := 0
	for _, h := range qp.hits {
		total += h.GapOpens
	}
	return total
}

// QueryStart is the first hit's query start, -1 without hits
func (qp *QueryPath) QueryStart() int {
	if len(qp.hits) == 0 {
		return -1
	}
	return qp.hits[0].QueryStart
}

// QueryEnd is the last hit's query end, -1 without hits
func (qp *QueryPath) QueryEnd() int {
	if len(qp.hits) == 0 {
		return -1
	}
	return qp.hits[len(qp.hits)-1].QueryEnd
}
