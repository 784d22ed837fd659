package traverse

import (
	"context"
	"errors"
	"testing"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

func TestTracer_LeadsOnlyTo(t *testing.T) {
	type args struct {
		target    string
		maxSteps  int
		includeRC bool
	}
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		args  args
		want  bool
	}{
		{
			"chain to the target",
			[]string{"a", "b", "d"},
			[][2]string{{"a", "b"}, {"b", "d"}},
			args{"d", 10, false},
			true,
		},
		{
			"branch to a dead end",
			[]string{"a", "b", "c", "d"},
			[][2]string{{"a", "b"}, {"b", "c"}, {"b", "d"}},
			args{"d", 10, false},
			false,
		},
		{
			"both branches reach the target",
			[]string{"a", "b", "c", "d"},
			[][2]string{{"a", "b"}, {"b", "c"}, {"b", "d"}, {"c", "d"}},
			args{"d", 10, false},
			true,
		},
		{
			"cycle back to the origin",
			[]string{"a", "b", "c", "d"},
			[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"b", "d"}},
			args{"d", 10, false},
			false,
		},
		{
			"loop visited twice is skipped",
			[]string{"a", "b", "c", "d"},
			[][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}, {"b", "d"}},
			args{"d", 10, false},
			true,
		},
		{
			"out of steps",
			[]string{"a", "b", "c", "d"},
			[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}},
			args{"d", 2, false},
			false,
		},
		{
			"target on the first hop",
			[]string{"a", "b"},
			[][2]string{{"a", "b"}},
			args{"b", 1, false},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ids := build(t, tt.nodes, tt.edges)
			e := edge(t, g, ids, "a", "b")

			got, err := New(g).LeadsOnlyTo(context.Background(), e, true, ids[tt.args.target], tt.args.maxSteps, tt.args.includeRC)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("LeadsOnlyTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTracer_LeadsOnlyTo_reverseComplement(t *testing.T) {
	g, ids := build(t, []string{"a", "b", "d"}, [][2]string{{"a", "b"}})
	if _, err := g.AddEdge(ids["b"], g.RC(ids["d"]), 0, graph.ExactOverlap); err != nil {
		t.Fatal(err)
	}
	e := edge(t, g, ids, "a", "b")
	tr := New(g)

	got, err := tr.LeadsOnlyTo(context.Background(), e, true, ids["d"], 5, false)
	if err != nil || got {
		t.Errorf("LeadsOnlyTo(includeRC=false) = %v, %v; want false", got, err)
	}
	got, err = tr.LeadsOnlyTo(context.Background(), e, true, ids["d"], 5, true)
	if err != nil || !got {
		t.Errorf("LeadsOnlyTo(includeRC=true) = %v, %v; want true", got, err)
	}
}

func TestTracer_LeadsOnlyTo_errors(t *testing.T) {
	g, ids := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	e := edge(t, g, ids, "a", "b")
	tr := New(g)

	if _, err := tr.LeadsOnlyTo(context.Background(), e, true, ids["b"], 0, false); !errors.Is(err, ErrInvalidSteps) {
		t.Errorf("error = %v, want ErrInvalidSteps", err)
	}
	if _, err := tr.LeadsOnlyTo(context.Background(), e, true, 42, 3, false); !errors.Is(err, graph.ErrUnknownNode) {
		t.Errorf("error = %v, want ErrUnknownNode", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tr.LeadsOnlyTo(ctx, e, true, ids["b"], 3, false); !errors.Is(err, ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled", err)
	}
}

func TestTracer_NodeLeadsOnlyTo(t *testing.T) {
	g, ids := build(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "b"}, {"b", "d"}, {"c", "c"}})
	tr := New(g)

	tests := []struct {
		name string
		from string
		want bool
	}{
		{"outgoing edge reaches the target", "b", true},
		{"upstream of the target", "a", true},
		{"self loop returns to itself", "c", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tr.NodeLeadsOnlyTo(context.Background(), ids[tt.from], ids["d"], 10, false)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("NodeLeadsOnlyTo(%s) = %v, want %v", tt.from, got, tt.want)
			}
		})
	}
}
