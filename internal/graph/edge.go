package graph

import (
	"fmt"
	"sort"
	"strconv"
)

// EdgeID is a stable handle to an edge in a Graph's arena
type EdgeID int32

// NoEdge is returned where a lookup finds nothing
const NoEdge EdgeID = -1

// OverlapKind says where an edge's overlap came from
type OverlapKind int

const (
	// UnknownOverlap is an edge whose overlap hasn't been determined
	UnknownOverlap OverlapKind = iota

	// ExactOverlap is an overlap specified by the graph's source
	ExactOverlap

	// AutoDetectedExactOverlap was found by comparing the node sequences
	AutoDetectedExactOverlap
)

// String returns a readable name for the overlap kind
func (k OverlapKind) String() string {
	switch k {
	case ExactOverlap:
		return "exact"
	case AutoDetectedExactOverlap:
		return "auto-detected"
	default:
		return "unknown"
	}
}

// Edge is a directed link from the end of one node into the start of another
type Edge struct {
	start, end NodeID

	// overlap is the number of bases shared by the end of start and the start of end
	overlap int

	kind OverlapKind

	// rc is the edge's reverse complement: RC(end) -> RC(start)
	rc EdgeID
}

// Start returns the node the edge leaves from
func (e *Edge) Start() NodeID { return e.start }

// End returns the node the edge leads into
func (e *Edge) End() NodeID { return e.end }

// Overlap is the number of bases shared across the junction
func (e *Edge) Overlap() int { return e.overlap }

// Kind says how the overlap was set
func (e *Edge) Kind() OverlapKind { return e.kind }

// ReverseComplement returns the handle of the edge's twin
func (e *Edge) ReverseComplement() EdgeID { return e.rc }

// Edge returns the edge for a handle, nil if there isn't a live one
func (g *Graph) Edge(id EdgeID) *Edge {
	if id < 0 || int(id) >= len(g.edges) {
		return nil
	}
	return g.edges[id]
}

// Edges returns the handles of every live edge in creation order
func (g *Graph) Edges() []EdgeID {
	ids := make([]EdgeID, 0, len(g.pairs))
	for i, e := range g.edges {
		if e != nil {
			ids = append(ids, EdgeID(i))
		}
	}
	return ids
}

// EdgeBetween returns the edge from start to end, if there is one
func (g *Graph) EdgeBetween(start, end NodeID) (EdgeID, bool) {
	id, ok := g.pairs[[2]NodeID{start, end}]
	return id, ok
}

// AddEdge links start to end and, unless the edge is its own reverse
// complement, also links RC(end) to RC(start) with the same overlap.
// It returns the handle of the start -> end edge
func (g *Graph) AddEdge(start, end NodeID, overlap int, kind OverlapKind) (EdgeID, error) {
	s, t := g.Node(start), g.Node(end)
	if s == nil || t == nil {
		return NoEdge, fmt.Errorf("adding edge %d -> %d: %w", start, end, ErrUnknownNode)
	}
	if overlap < 0 {
		return NoEdge, fmt.Errorf("adding edge %s -> %s: %w", s.name, t.name, ErrNegativeOverlap)
	}
	if _, exists := g.EdgeBetween(start, end); exists {
		return NoEdge, fmt.Errorf("adding edge %s -> %s: %w", s.name, t.name, ErrDuplicateEdge)
	}

	rcStart, rcEnd := t.rc, s.rc
	own := rcStart == start && rcEnd == end
	if !own {
		if _, exists := g.EdgeBetween(rcStart, rcEnd); exists {
			return NoEdge, fmt.Errorf("adding edge %s -> %s: twin %w", s.name, t.name, ErrDuplicateEdge)
		}
	}

	id := g.attach(start, end, overlap, kind)
	if own {
		g.edges[id].rc = id
		return id, nil
	}

	twin := g.attach(rcStart, rcEnd, overlap, kind)
	g.edges[id].rc = twin
	g.edges[twin].rc = id
	return id, nil
}

// attach creates an edge and adds it to its endpoints' incident lists
func (g *Graph) attach(start, end NodeID, overlap int, kind OverlapKind) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, &Edge{start: start, end: end, overlap: overlap, kind: kind, rc: NoEdge})
	g.pairs[[2]NodeID{start, end}] = id

	for _, n := range []NodeID{start, end} {
		if node := g.nodes[n]; !node.hasEdge(id) {
			node.edges = append(node.edges, id)
		}
	}
	return id
}

// RemoveEdge deletes an edge and its reverse complement, detaching both from
// every endpoint
func (g *Graph) RemoveEdge(id EdgeID) error {
	e := g.Edge(id)
	if e == nil {
		return fmt.Errorf("removing edge %d: %w", id, ErrUnknownEdge)
	}

	g.detach(id)
	if e.rc != id && g.Edge(e.rc) != nil {
		g.detach(e.rc)
	}
	return nil
}

// detach removes one edge from the arena and its endpoints
func (g *Graph) detach(id EdgeID) {
	e := g.edges[id]
	g.nodes[e.start].dropEdge(id)
	g.nodes[e.end].dropEdge(id)
	delete(g.pairs, [2]NodeID{e.start, e.end})
	g.edges[id] = nil
}

// SetOverlap sets the overlap of an edge and its twin
func (g *Graph) SetOverlap(id EdgeID, overlap int, kind OverlapKind) error {
	e := g.Edge(id)
	if e == nil {
		return fmt.Errorf("setting overlap of edge %d: %w", id, ErrUnknownEdge)
	}
	if overlap < 0 {
		return fmt.Errorf("setting overlap of edge %d: %w", id, ErrNegativeOverlap)
	}

	e.overlap, e.kind = overlap, kind
	if twin := g.Edge(e.rc); twin != nil {
		twin.overlap, twin.kind = overlap, kind
	}
	return nil
}

// OtherEndpoint returns the endpoint of an edge that isn't n.
// n must be one of the edge's two nodes
func (g *Graph) OtherEndpoint(id EdgeID, n NodeID) (NodeID, error) {
	e := g.Edge(id)
	if e == nil {
		return NoNode, fmt.Errorf("other endpoint of edge %d: %w", id, ErrUnknownEdge)
	}

	switch n {
	case e.start:
		return e.end, nil
	case e.end:
		return e.start, nil
	}
	return NoNode, fmt.Errorf("%s on edge %s: %w", g.Name(n), g.EdgeName(id), ErrNotEndpoint)
}

// EdgeName is a readable name for an edge, ex: "1+ -> 2-"
func (g *Graph) EdgeName(id EdgeID) string {
	e := g.Edge(id)
	if e == nil {
		return fmt.Sprintf("edge(%d)", id)
	}
	return g.Name(e.start) + " -> " + g.Name(e.end)
}

// IncidentEdges returns every edge touching n
func (g *Graph) IncidentEdges(n NodeID) []EdgeID {
	node := g.Node(n)
	if node == nil {
		return nil
	}
	return append([]EdgeID(nil), node.edges...)
}

// LeavingEdges returns the edges that start at n
func (g *Graph) LeavingEdges(n NodeID) []EdgeID {
	return g.filterEdges(n, func(e *Edge) bool { return e.start == n })
}

// EnteringEdges returns the edges that end at n
func (g *Graph) EnteringEdges(n NodeID) []EdgeID {
	return g.filterEdges(n, func(e *Edge) bool { return e.end == n })
}

// NextEdges returns the edges that continue a walk through n: leaving edges
// when walking forward, entering edges when walking backward
func (g *Graph) NextEdges(n NodeID, forward bool) []EdgeID {
	if forward {
		return g.LeavingEdges(n)
	}
	return g.EnteringEdges(n)
}

func (g *Graph) filterEdges(n NodeID, keep func(*Edge) bool) []EdgeID {
	node := g.Node(n)
	if node == nil {
		return nil
	}

	var ids []EdgeID
	for _, id := range node.edges {
		if keep(g.edges[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

// DownstreamNodes are the nodes n leads into
func (g *Graph) DownstreamNodes(n NodeID) []NodeID {
	var ids []NodeID
	for _, e := range g.LeavingEdges(n) {
		ids = append(ids, g.edges[e].end)
	}
	return ids
}

// UpstreamNodes are the nodes that lead into n
func (g *Graph) UpstreamNodes(n NodeID) []NodeID {
	var ids []NodeID
	for _, e := range g.EnteringEdges(n) {
		ids = append(ids, g.edges[e].start)
	}
	return ids
}

// SelfLoopingEdge returns the edge from n back into itself, if there is one
func (g *Graph) SelfLoopingEdge(n NodeID) (EdgeID, bool) {
	return g.EdgeBetween(n, n)
}

// DeadEndCount is 0 if n has edges on both ends, 1 if one end is free and
// 2 if the node is isolated
func (g *Graph) DeadEndCount(n NodeID) int {
	count := 0
	if len(g.LeavingEdges(n)) == 0 {
		count++
	}
	if len(g.EnteringEdges(n)) == 0 {
		count++
	}
	return count
}

// IsOwnReverseComplement is true for edges like 1+ -> 1- that are their own twin
func (g *Graph) IsOwnReverseComplement(id EdgeID) bool {
	e := g.Edge(id)
	return e != nil && e.rc == id
}

// IsPositiveEdge picks one edge out of each edge/twin pair. When both nodes
// share a strand the strand decides. Edges that are their own twin are
// positive. Otherwise the starting node names are compared, which is
// arbitrary but stable
func (g *Graph) IsPositiveEdge(id EdgeID) bool {
	e := g.Edge(id)
	if e == nil {
		return false
	}

	s, t := g.nodes[e.start], g.nodes[e.end]
	if s.IsPositive() && t.IsPositive() {
		return true
	}
	if s.IsNegative() && t.IsNegative() {
		return false
	}
	if e.rc == id {
		return true
	}

	twin := g.Edge(e.rc)
	if twin == nil {
		return true
	}
	return s.name > g.nodes[twin.start].name
}

// SortEdges orders edges by their starting then ending node. Node names that
// are all numbers are compared as numbers, otherwise as strings
func (g *Graph) SortEdges(ids []EdgeID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return g.edgeLess(ids[i], ids[j])
	})
}

func (g *Graph) edgeLess(a, b EdgeID) bool {
	ea, eb := g.edges[a], g.edges[b]
	aStart, bStart := g.nodes[ea.start], g.nodes[eb.start]
	aEnd, bEnd := g.nodes[ea.end], g.nodes[eb.end]

	aStartNum, ok1 := nameNumber(aStart)
	bStartNum, ok2 := nameNumber(bStart)
	aEndNum, ok3 := nameNumber(aEnd)
	bEndNum, ok4 := nameNumber(bEnd)

	if ok1 && ok2 && ok3 && ok4 {
		if aStartNum != bStartNum {
			return aStartNum < bStartNum
		}
		return aEndNum < bEndNum
	}
	return aStart.name < bStart.name
}

func nameNumber(n *Node) (int64, bool) {
	v, err := strconv.ParseInt(n.NameWithoutSign(), 10, 64)
	return v, err == nil
}
