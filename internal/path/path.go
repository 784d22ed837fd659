// Package path is for walks through the assembly graph: ordered nodes joined
// by the graph's edges, optionally starting and ending part way into the
// first and last node
package path

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

var (
	// ErrEmptyPath is returned when a path is built from no nodes
	ErrEmptyPath = errors.New("empty path")

	// ErrNotAdjacent is returned when consecutive nodes aren't joined by an edge
	ErrNotAdjacent = errors.New("nodes are not adjacent")

	// ErrAmbiguousPath is returned when a set of nodes isn't a single chain or cycle
	ErrAmbiguousPath = errors.New("nodes do not form a single unambiguous path")

	// ErrClipRange is returned for start or end positions outside the path's end nodes
	ErrClipRange = errors.New("clip position out of range")

	// ErrMissingSequence is returned when a path's nodes have no bases to merge
	ErrMissingSequence = errors.New("node sequence is missing")
)

// ClipType says whether a path covers its first and last nodes entirely
type ClipType int

const (
	// WholeNodes paths start at the first base of the first node and end at
	// the last base of the last node
	WholeNodes ClipType = iota

	// PartialNodes paths start and end at given positions
	PartialNodes
)

// fastaLineLength is the number of bases per line in FASTA output
const fastaLineLength = 70

// Path is an ordered walk through the graph. len(edges) == len(nodes)-1 and
// edges[i] joins nodes[i] to nodes[i+1]. A circular path repeats its first
// node at the end
type Path struct {
	g *graph.Graph

	nodes []graph.NodeID
	edges []graph.EdgeID

	clip ClipType

	// 1-based, inclusive positions in the first and last node. only used
	// for PartialNodes paths
	start, end int
}

// New returns an empty path over g
func New(g *graph.Graph) *Path {
	return &Path{g: g}
}

// Graph returns the graph the path walks
func (p *Path) Graph() *graph.Graph {
	return p.g
}

// Nodes returns the path's nodes in order
func (p *Path) Nodes() []graph.NodeID {
	return append([]graph.NodeID(nil), p.nodes...)
}

// Edges returns the edges between consecutive nodes
func (p *Path) Edges() []graph.EdgeID {
	return append([]graph.EdgeID(nil), p.edges...)
}

// IsEmpty is true for a path without nodes
func (p *Path) IsEmpty() bool {
	return len(p.nodes) == 0
}

// Contains reports whether n is on the path
func (p *Path) Contains(n graph.NodeID) bool {
	for _, id := range p.nodes {
		if id == n {
			return true
		}
	}
	return false
}

// IsCircular is true if the path ends where it starts, joined by an edge
func (p *Path) IsCircular() bool {
	return len(p.nodes) > 1 && len(p.edges) > 0 && p.nodes[0] == p.nodes[len(p.nodes)-1]
}

// Clip returns the path's clip type
func (p *Path) Clip() ClipType {
	return p.clip
}

// StartPosition is the 1-based position in the first node where the path begins
func (p *Path) StartPosition() int {
	if p.clip == PartialNodes {
		return p.start
	}
	return 1
}

// EndPosition is the 1-based position in the last node where the path ends
func (p *Path) EndPosition() int {
	if p.clip == PartialNodes {
		return p.end
	}
	if p.IsEmpty() {
		return 0
	}
	return p.g.Len(p.nodes[len(p.nodes)-1])
}

// SetPartial clips the path to begin at start in the first node and end at
// end in the last node. Both positions are 1-based and inclusive
func (p *Path) SetPartial(start, end int) error {
	if p.IsEmpty() {
		return fmt.Errorf("clipping: %w", ErrEmptyPath)
	}
	if p.IsCircular() {
		return fmt.Errorf("clipping a circular path: %w", ErrClipRange)
	}

	first, last := p.nodes[0], p.nodes[len(p.nodes)-1]
	if start < 1 || start > p.g.Len(first) {
		return fmt.Errorf("start %d in %s: %w", start, p.g.Name(first), ErrClipRange)
	}
	if end < 1 || end > p.g.Len(last) {
		return fmt.Errorf("end %d in %s: %w", end, p.g.Name(last), ErrClipRange)
	}
	if len(p.nodes) == 1 && start > end {
		return fmt.Errorf("start %d after end %d in %s: %w", start, end, p.g.Name(first), ErrClipRange)
	}

	p.clip, p.start, p.end = PartialNodes, start, end
	return nil
}

// TryAppend adds n to the end of the path if the last node has an edge into
// it. Without strandSpecific, n's reverse complement is tried as well. An
// empty path takes any node and a circular path takes none. The path is left
// unchanged when it returns false
func (p *Path) TryAppend(n graph.NodeID, strandSpecific bool) bool {
	if p.g.Node(n) == nil || p.IsCircular() {
		return false
	}
	if p.IsEmpty() {
		p.nodes = append(p.nodes, n)
		return true
	}

	last := p.nodes[len(p.nodes)-1]
	candidates := []graph.NodeID{n}
	if !strandSpecific {
		candidates = append(candidates, p.g.RC(n))
	}

	for _, c := range candidates {
		if e, ok := p.g.EdgeBetween(last, c); ok {
			p.nodes = append(p.nodes, c)
			p.edges = append(p.edges, e)
			if p.clip == PartialNodes {
				p.end = p.g.Len(c)
			}
			return true
		}
	}
	return false
}

// TryPrepend adds n to the start of the path if it has an edge into the first
// node. It mirrors TryAppend
func (p *Path) TryPrepend(n graph.NodeID, strandSpecific bool) bool {
	if p.g.Node(n) == nil || p.IsCircular() {
		return false
	}
	if p.IsEmpty() {
		p.nodes = append(p.nodes, n)
		return true
	}

	first := p.nodes[0]
	candidates := []graph.NodeID{n}
	if !strandSpecific {
		candidates = append(candidates, p.g.RC(n))
	}

	for _, c := range candidates {
		if e, ok := p.g.EdgeBetween(c, first); ok {
			p.nodes = append([]graph.NodeID{c}, p.nodes...)
			p.edges = append([]graph.EdgeID{e}, p.edges...)
			if p.clip == PartialNodes {
				p.start = 1
			}
			return true
		}
	}
	return false
}

// Len is the length of the path's merged sequence: node lengths minus one
// overlap per junction, less any clipped bases. A circular path counts its
// repeated node once
func (p *Path) Len() int {
	if p.IsEmpty() {
		return 0
	}

	nodes := p.nodes
	if p.IsCircular() {
		nodes = nodes[:len(nodes)-1]
	}

	total := 0
	for _, n := range nodes {
		total += p.g.Len(n)
	}
	for _, e := range p.edges {
		total -= p.g.Edge(e).Overlap()
	}

	if p.clip == PartialNodes {
		total -= p.start - 1
		total -= p.g.Len(p.nodes[len(p.nodes)-1]) - p.end
	}
	return total
}

// MergedSequence joins the node sequences, dropping the overlap at each
// junction from the start of the later node. Circular paths drop the closing
// edge's overlap from the end instead of repeating the first node. Partial
// paths are trimmed to their start and end positions
func (p *Path) MergedSequence() ([]byte, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	for _, n := range p.nodes {
		if p.g.SequenceMissing(n) {
			return nil, fmt.Errorf("merging %s: %w", p.g.Name(n), ErrMissingSequence)
		}
	}

	seq := append([]byte(nil), p.g.Sequence(p.nodes[0])...)
	for i := 1; i < len(p.nodes); i++ {
		overlap := p.g.Edge(p.edges[i-1]).Overlap()

		// closing junction of a cycle
		if p.IsCircular() && i == len(p.nodes)-1 {
			seq = seq[:max(0, len(seq)-overlap)]
			break
		}

		next := p.g.Sequence(p.nodes[i])
		seq = append(seq, next[min(overlap, len(next)):]...)
	}

	if p.clip == PartialNodes {
		trimEnd := p.g.Len(p.nodes[len(p.nodes)-1]) - p.end
		seq = seq[:max(0, len(seq)-trimEnd)]
		seq = seq[min(p.start-1, len(seq)):]
	}
	return seq, nil
}

// HasOtherEdges is true when the graph has edges joining two of the path's
// nodes that the path doesn't use
func (p *Path) HasOtherEdges() bool {
	onPath := make(map[graph.NodeID]bool, len(p.nodes))
	for _, n := range p.nodes {
		onPath[n] = true
	}
	used := make(map[graph.EdgeID]bool, len(p.edges))
	for _, e := range p.edges {
		used[e] = true
	}

	for n := range onPath {
		for _, e := range p.g.IncidentEdges(n) {
			other, _ := p.g.OtherEndpoint(e, n)
			if onPath[other] && !used[e] {
				return true
			}
		}
	}
	return false
}

// String lists the node names, ex: "1+, 2-, 3+". Partial paths show their
// start and end positions in parentheses
func (p *Path) String() string {
	names := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		names[i] = p.g.Name(n)
	}

	s := strings.Join(names, ", ")
	if p.clip == PartialNodes {
		s = fmt.Sprintf("(%d) %s (%d)", p.start, s, p.end)
	}
	return s
}

// FASTA returns the merged sequence as a FASTA record
func (p *Path) FASTA(name string) (string, error) {
	seq, err := p.MergedSequence()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, ">%s\n", name)
	for i := 0; i < len(seq); i += fastaLineLength {
		b.Write(seq[i:min(i+fastaLineLength, len(seq))])
		b.WriteByte('\n')
	}
	return b.String(), nil
}
