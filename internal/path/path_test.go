package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

// chain is 1+ -> 2+ -> 3+ with overlaps 3 and 2. With circular, 3+ -> 1+
// closes the loop with an overlap of 1
func chain(t *testing.T, circular bool) (*graph.Graph, []graph.NodeID) {
	t.Helper()

	g := graph.New()
	var ids []graph.NodeID
	for _, n := range []struct{ name, seq string }{
		{"1", "ACGTACGTAA"},
		{"2", "TAAGGGCCCT"},
		{"3", "CTGGGGAAAA"},
	} {
		pos, _, err := g.AddNodePair(n.name, 1, []byte(n.seq))
		require.NoError(t, err)
		ids = append(ids, pos)
	}

	_, err := g.AddEdge(ids[0], ids[1], 3, graph.ExactOverlap)
	require.NoError(t, err)
	_, err = g.AddEdge(ids[1], ids[2], 2, graph.ExactOverlap)
	require.NoError(t, err)
	if circular {
		_, err = g.AddEdge(ids[2], ids[0], 1, graph.ExactOverlap)
		require.NoError(t, err)
	}
	return g, ids
}

func TestPath_TryAppend(t *testing.T) {
	g, ids := chain(t, false)

	p := New(g)
	assert.True(t, p.TryAppend(ids[0], true), "an empty path takes any node")
	assert.False(t, p.TryAppend(ids[2], true))
	assert.Equal(t, []graph.NodeID{ids[0]}, p.Nodes(), "a failed append leaves the path alone")

	assert.True(t, p.TryAppend(ids[1], true))
	assert.True(t, p.TryAppend(ids[2], true))
	assert.Len(t, p.Edges(), 2)
	assert.Equal(t, "1+, 2+, 3+", p.String())
}

func TestPath_TryAppend_otherStrand(t *testing.T) {
	g, ids := chain(t, false)

	p := New(g)
	require.True(t, p.TryAppend(ids[0], true))
	assert.False(t, p.TryAppend(g.RC(ids[1]), true))
	assert.True(t, p.TryAppend(g.RC(ids[1]), false))
	assert.Equal(t, []graph.NodeID{ids[0], ids[1]}, p.Nodes())
}

func TestPath_TryPrepend(t *testing.T) {
	g, ids := chain(t, false)

	p := New(g)
	require.True(t, p.TryAppend(ids[2], true))
	assert.False(t, p.TryPrepend(ids[0], true))
	assert.True(t, p.TryPrepend(ids[1], true))
	assert.True(t, p.TryPrepend(ids[0], true))
	assert.Equal(t, []graph.NodeID{ids[0], ids[1], ids[2]}, p.Nodes())
}

func TestPath_MergedSequence(t *testing.T) {
	g, ids := chain(t, false)

	p, err := FromOrderedNodes(g, ids, false)
	require.NoError(t, err)

	seq, err := p.MergedSequence()
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGTAAGGGCCCTGGGGAAAA", string(seq))
	assert.Equal(t, len(seq), p.Len())
	assert.False(t, p.IsCircular())
}

func TestPath_MergedSequence_circular(t *testing.T) {
	g, ids := chain(t, true)

	p, err := FromOrderedNodes(g, ids, true)
	require.NoError(t, err)
	require.True(t, p.IsCircular())
	assert.Equal(t, "1+, 2+, 3+, 1+", p.String())

	seq, err := p.MergedSequence()
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGTAAGGGCCCTGGGGAAA", string(seq))
	assert.Equal(t, 24, p.Len())

	assert.False(t, p.TryAppend(ids[1], true), "circular paths can't grow")
	assert.ErrorIs(t, p.SetPartial(1, 1), ErrClipRange)
}

func TestPath_SetPartial(t *testing.T) {
	g, ids := chain(t, false)

	p, err := FromOrderedNodes(g, ids, false)
	require.NoError(t, err)
	require.NoError(t, p.SetPartial(3, 5))

	seq, err := p.MergedSequence()
	require.NoError(t, err)
	assert.Equal(t, "GTACGTAAGGGCCCTGGG", string(seq))
	assert.Equal(t, 18, p.Len())
	assert.Equal(t, "(3) 1+, 2+, 3+ (5)", p.String())
	assert.Equal(t, 3, p.StartPosition())
	assert.Equal(t, 5, p.EndPosition())

	tests := []struct {
		name       string
		nodes      []graph.NodeID
		start, end int
	}{
		{"start before the node", ids, 0, 5},
		{"start past the node", ids, 11, 5},
		{"end past the node", ids, 1, 11},
		{"single node reversed", ids[:1], 6, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromOrderedNodes(g, tt.nodes, false)
			require.NoError(t, err)
			assert.ErrorIs(t, p.SetPartial(tt.start, tt.end), ErrClipRange)
			assert.Equal(t, WholeNodes, p.Clip())
		})
	}

	single, err := FromOrderedNodes(g, ids[:1], false)
	require.NoError(t, err)
	require.NoError(t, single.SetPartial(4, 7))
	seq, err = single.MergedSequence()
	require.NoError(t, err)
	assert.Equal(t, "TACG", string(seq))
}

func TestPath_MergedSequence_missing(t *testing.T) {
	g := graph.New()
	a, _, err := g.AddNodePair("1", 1, nil)
	require.NoError(t, err)
	require.NoError(t, g.SetLength(a, 50))

	p, err := FromOrderedNodes(g, []graph.NodeID{a}, false)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Len())

	_, err = p.MergedSequence()
	assert.ErrorIs(t, err, ErrMissingSequence)
}

func TestPath_HasOtherEdges(t *testing.T) {
	g, ids := chain(t, false)

	p, err := FromOrderedNodes(g, ids[:2], false)
	require.NoError(t, err)
	assert.False(t, p.HasOtherEdges())

	_, err = g.AddEdge(ids[1], ids[0], 0, graph.ExactOverlap)
	require.NoError(t, err)
	assert.True(t, p.HasOtherEdges())
}

func TestPath_FASTA(t *testing.T) {
	g, ids := chain(t, false)

	p, err := FromOrderedNodes(g, ids, false)
	require.NoError(t, err)

	fasta, err := p.FASTA("path_1")
	require.NoError(t, err)
	assert.Equal(t, ">path_1\nACGTACGTAAGGGCCCTGGGGAAAA\n", fasta)
}

func TestFromOrderedNodes(t *testing.T) {
	g, ids := chain(t, false)

	_, err := FromOrderedNodes(g, nil, false)
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = FromOrderedNodes(g, []graph.NodeID{ids[0], ids[2]}, false)
	assert.ErrorIs(t, err, ErrNotAdjacent)

	_, err = FromOrderedNodes(g, ids, true)
	assert.ErrorIs(t, err, ErrNotAdjacent, "no edge back to the first node")

	_, err = FromOrderedNodes(g, []graph.NodeID{ids[0], 99}, false)
	assert.ErrorIs(t, err, graph.ErrUnknownNode)
}

func TestFromOrderedNodes_closed(t *testing.T) {
	g, ids := chain(t, true)

	p, err := FromOrderedNodes(g, append(ids, ids[0]), false)
	require.NoError(t, err)
	assert.True(t, p.IsCircular())
	assert.Len(t, p.Nodes(), 4)
}

func TestFromUnorderedNodes(t *testing.T) {
	g, ids := chain(t, false)

	p, err := FromUnorderedNodes(g, []graph.NodeID{ids[2], ids[0], ids[1], ids[0]}, true)
	require.NoError(t, err)
	assert.Equal(t, ids, p.Nodes())
	assert.False(t, p.IsCircular())

	// 2- only joins 1+ on the other strand
	_, err = FromUnorderedNodes(g, []graph.NodeID{ids[0], g.RC(ids[1])}, true)
	assert.ErrorIs(t, err, ErrAmbiguousPath)

	p, err = FromUnorderedNodes(g, []graph.NodeID{ids[0], g.RC(ids[1])}, false)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{ids[0], ids[1]}, p.Nodes())
}

func TestFromUnorderedNodes_branch(t *testing.T) {
	g, ids := chain(t, false)

	four, _, err := g.AddNodePair("4", 1, []byte("AAAAAAAAAA"))
	require.NoError(t, err)
	_, err = g.AddEdge(ids[0], four, 0, graph.ExactOverlap)
	require.NoError(t, err)

	_, err = FromUnorderedNodes(g, []graph.NodeID{ids[0], ids[1], four}, true)
	assert.ErrorIs(t, err, ErrAmbiguousPath)
}

func TestFromUnorderedNodes_otherOrders(t *testing.T) {
	tests := []struct {
		name  string
		extra [][2]int
	}{
		{"shortcut past the middle node", [][2]int{{0, 2}}},
		{"two orders of the last nodes", [][2]int{{0, 2}, {2, 1}}},
		{"edge back into the chain", [][2]int{{2, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ids := chain(t, false)
			for _, e := range tt.extra {
				_, err := g.AddEdge(ids[e[0]], ids[e[1]], 0, graph.ExactOverlap)
				require.NoError(t, err)
			}

			_, err := FromUnorderedNodes(g, ids, true)
			assert.ErrorIs(t, err, ErrAmbiguousPath)

			_, err = FromUnorderedNodes(g, []graph.NodeID{ids[2], ids[1], ids[0]}, false)
			assert.ErrorIs(t, err, ErrAmbiguousPath)
		})
	}
}

func TestFromUnorderedNodes_cycle(t *testing.T) {
	g, ids := chain(t, true)

	p, err := FromUnorderedNodes(g, []graph.NodeID{ids[0], ids[2], ids[1]}, true)
	require.NoError(t, err)
	assert.True(t, p.IsCircular())
	assert.Equal(t, 24, p.Len())

	seq, err := p.MergedSequence()
	require.NoError(t, err)
	assert.Len(t, seq, 24)
}
