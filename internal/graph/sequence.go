package graph

import "fmt"

var complement [256]byte

func init() {
	pairs := []string{"AT", "CG", "RY", "SS", "WW", "KM", "BV", "DH", "NN"}
	for _, p := range pairs {
		a, b := p[0], p[1]
		complement[a], complement[b] = b, a

		// keep lowercase (soft-masked) bases lowercase
		la, lb := a+'a'-'A', b+'a'-'A'
		complement[la], complement[lb] = lb, la
	}
	complement['U'], complement['u'] = 'A', 'a'
	complement['*'], complement['-'] = '*', '-'
}

// ReverseComplement returns the reverse complement of seq.
// Bases without a complement become N
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

// Sequence returns the bases of a node. It is empty if the graph only knows
// the node's length
func (g *Graph) Sequence(id NodeID) []byte {
	n := g.Node(id)
	if n == nil {
		return nil
	}
	return n.seq
}

// SequenceMissing is true if the node has a length but no bases
func (g *Graph) SequenceMissing(id NodeID) bool {
	n := g.Node(id)
	return n == nil || (len(n.seq) == 0 && n.length > 0)
}

// BaseAt returns the base at 0-based index i of a node, or 0 if out of range
func (g *Graph) BaseAt(id NodeID, i int) byte {
	n := g.Node(id)
	if n == nil || i < 0 || i >= len(n.seq) {
		return 0
	}
	return n.seq[i]
}

// SetSequence replaces the bases of a node and writes the reverse complement
// into its twin. Both lengths follow the new sequence
func (g *Graph) SetSequence(id NodeID, seq []byte) error {
	n := g.Node(id)
	if n == nil {
		return fmt.Errorf("setting sequence of node %d: %w", id, ErrUnknownNode)
	}

	n.seq = append([]byte(nil), seq...)
	n.length = len(n.seq)

	if twin := g.Node(n.rc); twin != nil && n.rc != id {
		twin.seq = ReverseComplement(n.seq)
		twin.length = n.length
	}
	return nil
}

// SetLength records the length of a node (and its twin) whose sequence is
// not loaded. It drops any sequence the pair had
func (g *Graph) SetLength(id NodeID, length int) error {
	n := g.Node(id)
	if n == nil {
		return fmt.Errorf("setting length of node %d: %w", id, ErrUnknownNode)
	}
	if length < 0 {
		return fmt.Errorf("negative length %d for node %s", length, n.name)
	}

	n.seq, n.length = nil, length
	if twin := g.Node(n.rc); twin != nil {
		twin.seq, twin.length = nil, length
	}
	return nil
}
