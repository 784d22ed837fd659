// Package traverse is for walking the assembly graph out from an edge:
// enumerating the paths a bounded number of hops away and checking whether
// every such path ends up at one target node
package traverse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jjtimmons/asmgraph/internal/graph"
	"github.com/jjtimmons/asmgraph/internal/metrics"
)

var (
	// ErrCancelled is returned when a walk's context ends before it finishes.
	// It wraps the context's error
	ErrCancelled = errors.New("trace cancelled")

	// ErrInvalidSteps is returned for a step budget below one
	ErrInvalidSteps = errors.New("max steps must be at least 1")
)

const (
	walkPaths = "paths"
	walkReach = "reach"
)

// Progress is passed to the progress hook on every recursive step
type Progress struct {
	// Walk is "paths" or "reach"
	Walk string

	// Steps is the number of recursive calls made so far in this walk
	Steps int

	// Depth is the length of the path buffer
	Depth int
}

// Option configures a Tracer
type Option func(*Tracer)

// WithProgress installs a hook called once per recursive step. It runs on
// the walking goroutine so it should return quickly
func WithProgress(fn func(Progress)) Option {
	return func(t *Tracer) {
		t.progress = fn
	}
}

// Tracer walks a graph. It only reads the graph, so several tracers (or
// several calls on one) can run at once as long as nothing mutates it
type Tracer struct {
	g        *graph.Graph
	progress func(Progress)
}

// New returns a Tracer over g
func New(g *graph.Graph, opts ...Option) *Tracer {
	t := &Tracer{g: g}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Graph returns the graph being walked
func (t *Tracer) Graph() *graph.Graph {
	return t.g
}

// walk is the state of one call. path is shared by every branch: each step
// appends its node and truncates back on return
type walk struct {
	ctx      context.Context
	g        *graph.Graph
	kind     string
	forward  bool
	origin   graph.NodeID
	path     []graph.NodeID
	steps    int
	progress func(Progress)
}

func (t *Tracer) newWalk(ctx context.Context, kind string, e graph.EdgeID, forward bool, maxSteps int) (*walk, error) {
	if maxSteps < 1 {
		return nil, fmt.Errorf("%d: %w", maxSteps, ErrInvalidSteps)
	}
	edge := t.g.Edge(e)
	if edge == nil {
		return nil, fmt.Errorf("tracing from edge %d: %w", e, graph.ErrUnknownEdge)
	}

	origin := edge.Start()
	if !forward {
		origin = edge.End()
	}

	// no node is on a walk more than twice
	depth := min(maxSteps, 2*t.g.NodeCount())

	return &walk{
		ctx:      ctx,
		g:        t.g,
		kind:     kind,
		forward:  forward,
		origin:   origin,
		path:     make([]graph.NodeID, 0, depth+1),
		progress: t.progress,
	}, nil
}

// step runs once per recursive call
func (w *walk) step() error {
	w.steps++
	metrics.TraceSteps.WithLabelValues(w.kind).Inc()
	if w.progress != nil {
		w.progress(Progress{Walk: w.kind, Steps: w.steps, Depth: len(w.path)})
	}

	if err := w.ctx.Err(); err != nil {
		metrics.TracesCancelled.WithLabelValues(w.kind).Inc()
		return fmt.Errorf("%w after %d steps: %w", ErrCancelled, w.steps, err)
	}
	return nil
}

// next is the node an edge leads to in the walk's direction
func (w *walk) next(e graph.EdgeID) graph.NodeID {
	edge := w.g.Edge(e)
	if w.forward {
		return edge.End()
	}
	return edge.Start()
}

// visits counts the times n is in the path buffer
func (w *walk) visits(n graph.NodeID) int {
	count := 0
	for _, id := range w.path {
		if id == n {
			count++
		}
	}
	return count
}

// Paths returns every node sequence found by following up to maxSteps hops
// from e. The walk starts at e's start node when forward (its end node when
// not) and that origin is left out of the results.
//
// A branch ends when the steps run out, when its last node has no edges
// onward, or when the next hop would return to the origin. A hop into a node
// already visited twice is dropped without ending the branch. Branches are
// not deduplicated
func (t *Tracer) Paths(ctx context.Context, e graph.EdgeID, forward bool, maxSteps int) ([][]graph.NodeID, error) {
	w, err := t.newWalk(ctx, walkPaths, e, forward, maxSteps)
	if err != nil {
		return nil, err
	}

	var paths [][]graph.NodeID
	if err := w.paths(e, maxSteps, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func (w *walk) paths(e graph.EdgeID, remaining int, out *[][]graph.NodeID) error {
	if err := w.step(); err != nil {
		return err
	}

	n := w.next(e)
	mark := len(w.path)
	w.path = append(w.path, n)
	defer func() { w.path = w.path[:mark] }()

	emit := func() {
		*out = append(*out, append([]graph.NodeID(nil), w.path...))
	}

	remaining--
	if remaining == 0 {
		emit()
		return nil
	}

	edges := w.g.NextEdges(n, w.forward)
	if len(edges) == 0 {
		emit()
		return nil
	}

	for _, next := range edges {
		nn := w.next(next)

		// all the way around a loop
		if nn == w.origin {
			emit()
			continue
		}

		if w.visits(nn) < 2 {
			if err := w.paths(next, remaining, out); err != nil {
				return err
			}
		}
	}
	return nil
}
