// Package graph is the assembly graph: strand-paired contig nodes joined by
// overlapping edges. Nodes and edges live in an arena and are addressed by
// integer handles so that twin and adjacency links never alias memory.
//
// A Graph is not safe for concurrent mutation. Readers may share a Graph as
// long as nothing calls a mutating method at the same time.
package graph

import (
	"errors"
	"fmt"

	"github.com/tidwall/btree"
)

var (
	// ErrUnknownNode is returned for node handles or names not in the graph
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownEdge is returned for edge handles not in the graph
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrDuplicateNode is returned when a node name is added twice
	ErrDuplicateNode = errors.New("duplicate node")

	// ErrDuplicateEdge is returned when an edge between two nodes already exists
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNotEndpoint is returned by OtherEndpoint for a node the edge doesn't touch
	ErrNotEndpoint = errors.New("node is not an endpoint of the edge")

	// ErrNegativeOverlap is returned for overlaps below zero
	ErrNegativeOverlap = errors.New("negative overlap")
)

// Graph is an arena of nodes and edges
type Graph struct {
	nodes []*Node

	// edges by handle. removed edges leave a nil so handles stay stable
	edges []*Edge

	// names is an ordered index from signed node name to handle
	names btree.Map[string, NodeID]

	// pairs maps (start, end) to the edge between them
	pairs map[[2]NodeID]EdgeID
}

// New returns an empty graph
func New() *Graph {
	return &Graph{pairs: make(map[[2]NodeID]EdgeID)}
}

// AddNodePair adds a node and its reverse complement twin. name is given
// without a strand sign. The "+" node gets seq and the "-" node gets its
// reverse complement
func (g *Graph) AddNodePair(name string, depth float64, seq []byte) (pos, neg NodeID, err error) {
	posName, negName := signedNames(name)
	if posName == "+" {
		return NoNode, NoNode, fmt.Errorf("adding node pair: empty name")
	}
	if _, exists := g.names.Get(posName); exists {
		return NoNode, NoNode, fmt.Errorf("adding node %s: %w", posName, ErrDuplicateNode)
	}
	if _, exists := g.names.Get(negName); exists {
		return NoNode, NoNode, fmt.Errorf("adding node %s: %w", negName, ErrDuplicateNode)
	}

	pos = NodeID(len(g.nodes))
	neg = pos + 1

	fwd := append([]byte(nil), seq...)
	g.nodes = append(g.nodes,
		&Node{name: posName, depth: depth, seq: fwd, length: len(fwd), rc: neg},
		&Node{name: negName, depth: depth, seq: ReverseComplement(fwd), length: len(fwd), rc: pos},
	)
	g.names.Set(posName, pos)
	g.names.Set(negName, neg)

	return pos, neg, nil
}

// Node returns the node for a handle, nil if there isn't one
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// NodeByName looks up a node by its signed name, ex: "7-"
func (g *Graph) NodeByName(name string) (NodeID, bool) {
	return g.names.Get(name)
}

// MustNode looks up a node by name and fails with ErrUnknownNode otherwise
func (g *Graph) MustNode(name string) (NodeID, error) {
	id, ok := g.names.Get(name)
	if !ok {
		return NoNode, fmt.Errorf("%s: %w", name, ErrUnknownNode)
	}
	return id, nil
}

// Name is a shortcut for the signed name of a node
func (g *Graph) Name(id NodeID) string {
	if n := g.Node(id); n != nil {
		return n.name
	}
	return ""
}

// Len is a shortcut for the length of a node
func (g *Graph) Len(id NodeID) int {
	if n := g.Node(id); n != nil {
		return n.length
	}
	return 0
}

// RC returns the reverse complement twin of a node
func (g *Graph) RC(id NodeID) NodeID {
	if n := g.Node(id); n != nil {
		return n.rc
	}
	return NoNode
}

// Nodes returns every node handle, ordered by name
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, g.names.Len())
	g.names.Scan(func(_ string, id NodeID) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

// NodeCount is the number of nodes, counting both strands
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount is the number of live edges, counting both strands
func (g *Graph) EdgeCount() int {
	return len(g.pairs)
}

// Clone makes a deep copy of the graph. Handles are the same in the copy
func (g *Graph) Clone() *Graph {
	c := New()
	c.nodes = make([]*Node, len(g.nodes))
	for i, n := range g.nodes {
		cp := *n
		cp.seq = append([]byte(nil), n.seq...)
		cp.edges = append([]EdgeID(nil), n.edges...)
		c.nodes[i] = &cp
		c.names.Set(cp.name, NodeID(i))
	}

	c.edges = make([]*Edge, len(g.edges))
	for i, e := range g.edges {
		if e == nil {
			continue
		}
		cp := *e
		c.edges[i] = &cp
	}
	for k, v := range g.pairs {
		c.pairs[k] = v
	}
	return c
}
