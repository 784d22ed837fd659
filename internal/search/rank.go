package search

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jjtimmons/asmgraph/internal/graph"
	"github.com/jjtimmons/asmgraph/internal/metrics"
	"github.com/jjtimmons/asmgraph/internal/path"
	"github.com/jjtimmons/asmgraph/internal/traverse"
)

// Compare orders query paths from best to worst: lower e-value product,
// then higher mean identity, then smaller absolute relative length
// discrepancy, then higher hits coverage. It returns a negative number when
// a is better than b and 0 when neither is
func Compare(a, b *QueryPath) int {
	if c := a.EvalueProduct().Compare(b.EvalueProduct()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.MeanPercentIdentity(), a.MeanPercentIdentity()); c != 0 {
		return c
	}
	if c := cmp.Compare(math.Abs(a.RelativeLengthDiscrepancy()), math.Abs(b.RelativeLengthDiscrepancy())); c != 0 {
		return c
	}
	return cmp.Compare(b.HitsQueryCoverage(), a.HitsQueryCoverage())
}

// BetterThan is true if qp sorts strictly before o
func (qp *QueryPath) BetterThan(o *QueryPath) bool {
	return Compare(qp, o) < 0
}

// SortQueryPaths sorts best to worst, keeping the order of equal paths
func SortQueryPaths(qps []*QueryPath) {
	slices.SortStableFunc(qps, Compare)
}

// CandidatePaths finds paths that might explain a query. From every node
// with a hit, it traces forward up to maxSteps hops and takes each prefix of
// each branch that ends on a node with a hit. A candidate is kept if its
// first kept hit is on its first node and its last kept hit on its last
// node; it's then clipped to start and end with those hits
func CandidatePaths(ctx context.Context, tr *traverse.Tracer, q *Query, maxSteps int) ([]*QueryPath, error) {
	g := tr.Graph()

	hasHit := make(map[graph.NodeID]bool)
	var starts []graph.NodeID
	for _, h := range q.Hits() {
		if !hasHit[h.Node] {
			hasHit[h.Node] = true
			starts = append(starts, h.Node)
		}
	}

	seen := make(map[string]bool)
	var candidates []*QueryPath
	try := func(nodes []graph.NodeID) error {
		key := nodeKey(nodes)
		if seen[key] {
			return nil
		}
		seen[key] = true

		p, err := path.FromOrderedNodes(g, nodes, false)
		if err != nil {
			return err
		}
		if qp := clipToHits(p, q); qp != nil {
			metrics.QueryPathsScored.Inc()
			candidates = append(candidates, qp)
		}
		return nil
	}

	for _, s := range starts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", traverse.ErrCancelled, err)
		}
		if err := try([]graph.NodeID{s}); err != nil {
			return nil, err
		}

		for _, e := range g.LeavingEdges(s) {
			branches, err := tr.Paths(ctx, e, true, maxSteps)
			if err != nil {
				return nil, err
			}

			for _, b := range branches {
				full := append([]graph.NodeID{s}, b...)
				for k := 2; k <= len(full); k++ {
					if !hasHit[full[k-1]] {
						continue
					}
					if err := try(full[:k]); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return candidates, nil
}

// clipToHits trims p to begin at its first hit and end at its last one. It
// returns nil if the path's ends don't carry those hits
func clipToHits(p *path.Path, q *Query) *QueryPath {
	qp := NewQueryPath(p, q)
	if len(qp.hits) == 0 {
		return nil
	}

	nodes := p.Nodes()
	first, last := qp.hits[0], qp.hits[len(qp.hits)-1]
	if first.Node != nodes[0] || last.Node != nodes[len(nodes)-1] {
		return nil
	}
	if err := p.SetPartial(first.NodeStart, last.NodeEnd); err != nil {
		return nil
	}
	return NewQueryPath(p, q)
}

func nodeKey(nodes []graph.NodeID) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(n)))
	}
	return b.String()
}

// RankQuery finds a query's candidate paths, sorts them best first and
// stores them on the query
func RankQuery(ctx context.Context, tr *traverse.Tracer, q *Query, maxSteps int) ([]*QueryPath, error) {
	qps, err := CandidatePaths(ctx, tr, q, maxSteps)
	if err != nil {
		return nil, fmt.Errorf("ranking paths for %s: %w", q.Name(), err)
	}

	SortQueryPaths(qps)
	q.setPaths(qps)
	return qps, nil
}

// RankQueries ranks every shown query concurrently. The graph must not be
// changed while it runs
func RankQueries(ctx context.Context, tr *traverse.Tracer, queries *Queries, maxSteps int) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for _, q := range queries.Shown() {
		group.Go(func() error {
			_, err := RankQuery(ctx, tr, q, maxSteps)
			return err
		})
	}
	return group.Wait()
}
