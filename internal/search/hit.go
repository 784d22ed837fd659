package search

import (
	"fmt"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

// Hit is one alignment of part of a query onto part of a node. Coordinates
// are 1-based and inclusive
type Hit struct {
	// Node the query aligned to
	Node graph.NodeID `json:"-"`

	// NodeStart is the first aligned base of the node
	NodeStart int `json:"nodeStart"`

	// NodeEnd is the last aligned base of the node
	NodeEnd int `json:"nodeEnd"`

	// QueryStart is the first aligned position of the query
	QueryStart int `json:"queryStart"`

	// QueryEnd is the last aligned position of the query
	QueryEnd int `json:"queryEnd"`

	PercentIdentity float64 `json:"percentIdentity"`
	AlignmentLength int     `json:"alignmentLength"`
	Mismatches      int     `json:"mismatches"`
	GapOpens        int     `json:"gapOpens"`
	Evalue          SciNot  `json:"evalue"`
	BitScore        float64 `json:"bitScore"`
}

// NodeLen is the number of node bases in the hit
func (h *Hit) NodeLen() int {
	return h.NodeEnd - h.NodeStart + 1
}

// QueryLen is the number of query positions in the hit
func (h *Hit) QueryLen() int {
	return h.QueryEnd - h.QueryStart + 1
}

// Validate checks the hit's coordinates against the graph
func (h *Hit) Validate(g *graph.Graph) error {
	if g.Node(h.Node) == nil {
		return fmt.Errorf("hit on node %d: %w", h.Node, graph.ErrUnknownNode)
	}
	if h.NodeStart < 1 || h.NodeEnd < h.NodeStart || h.NodeEnd > g.Len(h.Node) {
		return fmt.Errorf("hit span %d-%d outside of %s (%d bp)", h.NodeStart, h.NodeEnd, g.Name(h.Node), g.Len(h.Node))
	}
	if h.QueryStart < 1 || h.QueryEnd < h.QueryStart {
		return fmt.Errorf("hit query span %d-%d is invalid", h.QueryStart, h.QueryEnd)
	}
	return nil
}
