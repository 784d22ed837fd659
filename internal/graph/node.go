package graph

import "strings"

// NodeID is a stable handle to a node in a Graph's arena
type NodeID int32

// NoNode is returned where a lookup finds nothing
const NoNode NodeID = -1

// Node is a single contig in the assembly graph. Every node has a twin
// on the opposite strand: "12+" and "12-" hold reverse complement sequences
type Node struct {
	// name with its strand sign, ex: "12+"
	name string

	// depth (coverage) of the contig
	depth float64

	// seq of the node. may be empty when only the length is known
	seq []byte

	// length of the node in bases
	length int

	// edges touching this node, in either direction. a self-loop appears once
	edges []EdgeID

	// rc is the twin on the opposite strand
	rc NodeID
}

// Name returns the node's name with its strand sign
func (n *Node) Name() string {
	return n.name
}

// NameWithoutSign strips the trailing "+" or "-"
func (n *Node) NameWithoutSign() string {
	if n.name == "" {
		return ""
	}
	return n.name[:len(n.name)-1]
}

// Sign is the strand of the node. Nodes without a name are positive
func (n *Node) Sign() string {
	if n.name == "" {
		return "+"
	}
	return n.name[len(n.name)-1:]
}

// IsPositive is true for nodes on the "+" strand
func (n *Node) IsPositive() bool {
	return n.Sign() == "+"
}

// IsNegative is true for nodes on the "-" strand
func (n *Node) IsNegative() bool {
	return n.Sign() == "-"
}

// Depth returns the coverage of the node
func (n *Node) Depth() float64 {
	return n.depth
}

// Len is the length of the node in bases
func (n *Node) Len() int {
	return n.length
}

// ReverseComplement returns the handle of the node's twin
func (n *Node) ReverseComplement() NodeID {
	return n.rc
}

// hasEdge reports whether e is already in the incident list
func (n *Node) hasEdge(e EdgeID) bool {
	for _, id := range n.edges {
		if id == e {
			return true
		}
	}
	return false
}

// dropEdge removes e from the incident list
func (n *Node) dropEdge(e EdgeID) {
	kept := n.edges[:0]
	for _, id := range n.edges {
		if id != e {
			kept = append(kept, id)
		}
	}
	n.edges = kept
}

// signedNames returns the positive and negative names for a node name
// given without a sign
func signedNames(name string) (pos, neg string) {
	name = strings.TrimSpace(name)
	return name + "+", name + "-"
}
