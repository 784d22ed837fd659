package traverse

import (
	"context"
	"fmt"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

// LeadsOnlyTo reports whether every walk of up to maxSteps hops from e
// reaches target before anything else stops it. With includeRC, reaching
// target's reverse complement counts too.
//
// Coming back around to the origin fails the whole call, since a loop that
// missed the target may be a circular replicon. So does running out of steps
// or edges before the target. Hops into a node already visited twice are
// skipped and count as neither pass nor fail
func (t *Tracer) LeadsOnlyTo(ctx context.Context, e graph.EdgeID, forward bool, target graph.NodeID, maxSteps int, includeRC bool) (bool, error) {
	if t.g.Node(target) == nil {
		return false, fmt.Errorf("target %d: %w", target, graph.ErrUnknownNode)
	}

	w, err := t.newWalk(ctx, walkReach, e, forward, maxSteps)
	if err != nil {
		return false, err
	}
	w.path = append(w.path, w.origin)

	rc := graph.NoNode
	if includeRC {
		rc = t.g.RC(target)
	}
	return w.reach(e, maxSteps, target, rc)
}

// NodeLeadsOnlyTo reports whether any edge touching n leads only to target,
// walking each edge away from n
func (t *Tracer) NodeLeadsOnlyTo(ctx context.Context, n, target graph.NodeID, maxSteps int, includeRC bool) (bool, error) {
	if t.g.Node(n) == nil {
		return false, fmt.Errorf("node %d: %w", n, graph.ErrUnknownNode)
	}

	for _, e := range t.g.IncidentEdges(n) {
		outward := t.g.Edge(e).Start() == n
		ok, err := t.LeadsOnlyTo(ctx, e, outward, target, maxSteps, includeRC)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (w *walk) reach(e graph.EdgeID, remaining int, target, targetRC graph.NodeID) (bool, error) {
	if err := w.step(); err != nil {
		return false, err
	}

	n := w.next(e)
	mark := len(w.path)
	w.path = append(w.path, n)
	defer func() { w.path = w.path[:mark] }()

	if n == w.path[0] {
		return false, nil
	}
	if n == target || (targetRC != graph.NoNode && n == targetRC) {
		return true, nil
	}

	remaining--
	if remaining == 0 {
		return false, nil
	}

	edges := w.g.NextEdges(n, w.forward)
	if len(edges) == 0 {
		return false, nil
	}

	for _, next := range edges {
		if w.visits(w.next(next)) >= 2 {
			continue
		}

		ok, err := w.reach(next, remaining, target, targetRC)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
