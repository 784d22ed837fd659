package graph

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
)

func TestGraph_TestExactOverlap(t *testing.T) {
	g := New()
	a, _ := pair(t, g, "1", "GGGGACGTAC")
	b, _ := pair(t, g, "2", "ACGTACTTTT")

	tests := []struct {
		k    int
		want bool
	}{
		{0, true},
		{4, false},
		{6, true},
		{7, false},
	}
	for _, tt := range tests {
		if got := g.TestExactOverlap(a, b, tt.k); got != tt.want {
			t.Errorf("TestExactOverlap(%d) = %v, want %v", tt.k, got, tt.want)
		}
	}
}

func TestGraph_DetectExactOverlap(t *testing.T) {
	type args struct {
		start, end string
		r          OverlapRange
	}
	tests := []struct {
		name  string
		args  args
		valid []int
	}{
		{
			"single overlap in range",
			args{"TTTTTACGTA", "ACGTAGGGGG", OverlapRange{3, 8}},
			[]int{5},
		},
		{
			"several overlaps in range",
			args{"CCCAAAAAA", "AAAAAAGGG", OverlapRange{2, 6}},
			[]int{2, 3, 4, 5, 6},
		},
		{
			"no overlap in range",
			args{"CCCCCCCCC", "GGGGGGGGG", OverlapRange{2, 6}},
			[]int{0},
		},
		{
			"shorter node below the minimum",
			args{"ACG", "ACGTTTT", OverlapRange{5, 10}},
			[]int{0},
		},
		{
			"range clamped to the shorter node",
			args{"TTTTTTTTACGTAC", "ACGTAC", OverlapRange{2, 50}},
			[]int{2, 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			a, _ := pair(t, g, "1", tt.args.start)
			b, _ := pair(t, g, "2", tt.args.end)

			// several seeds so the random start lands in different places
			for seed := uint64(0); seed < 20; seed++ {
				rnd := rand.New(rand.NewPCG(seed, seed))
				got := g.DetectExactOverlap(a, b, tt.args.r, rnd)

				ok := false
				for _, v := range tt.valid {
					ok = ok || got == v
				}
				if !ok {
					t.Fatalf("DetectExactOverlap() = %d, want one of %v", got, tt.valid)
				}
				if got > 0 && !g.TestExactOverlap(a, b, got) {
					t.Fatalf("DetectExactOverlap() = %d, which isn't an exact overlap", got)
				}
			}
		})
	}
}

func TestGraph_DetectExactOverlap_missingSequence(t *testing.T) {
	g := New()
	a, _ := pair(t, g, "1", "")
	b, _ := pair(t, g, "2", "ACGTACGT")
	if err := g.SetLength(a, 100); err != nil {
		t.Fatal(err)
	}

	if got := g.DetectExactOverlap(a, b, OverlapRange{1, 10}, nil); got != 0 {
		t.Errorf("DetectExactOverlap() = %d, want 0 without a sequence", got)
	}
}

func TestGraph_AutoDetectAllOverlaps(t *testing.T) {
	g := New()
	a, aRC := pair(t, g, "1", "TTTTTACGTA")
	b, bRC := pair(t, g, "2", "ACGTAGGGGG")
	c, _ := pair(t, g, "3", "CCCCCCCCCC")

	ab, err := g.AddEdge(a, b, 0, UnknownOverlap)
	if err != nil {
		t.Fatal(err)
	}
	bc, err := g.AddEdge(b, c, 0, UnknownOverlap)
	if err != nil {
		t.Fatal(err)
	}
	fixed := link(t, g, c, a, 2)

	rnd := rand.New(rand.NewPCG(1, 2))
	found, err := g.AutoDetectAllOverlaps(context.Background(), OverlapRange{3, 8}, rnd)
	if err != nil {
		t.Fatal(err)
	}
	if found != 1 {
		t.Errorf("found = %d, want 1", found)
	}

	if e := g.Edge(ab); e.Overlap() != 5 || e.Kind() != AutoDetectedExactOverlap {
		t.Errorf("1+ -> 2+ overlap = %d (%s), want 5 (auto-detected)", e.Overlap(), e.Kind())
	}
	twin, _ := g.EdgeBetween(bRC, aRC)
	if g.Edge(twin).Overlap() != 5 {
		t.Errorf("2- -> 1- overlap = %d, want 5", g.Edge(twin).Overlap())
	}
	if e := g.Edge(bc); e.Overlap() != 0 || e.Kind() != AutoDetectedExactOverlap {
		t.Errorf("2+ -> 3+ overlap = %d (%s), want 0 (auto-detected)", e.Overlap(), e.Kind())
	}
	if e := g.Edge(fixed); e.Overlap() != 2 || e.Kind() != ExactOverlap {
		t.Error("edges with a known overlap should be left alone")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.AutoDetectAllOverlaps(ctx, OverlapRange{3, 8}, rnd); err == nil {
		t.Error("expected a cancelled context to stop the search")
	}
}

func TestGraph_SetOverlap(t *testing.T) {
	g := New()
	a, aRC := pair(t, g, "1", "ACGTACGTAA")
	b, bRC := pair(t, g, "2", "GGACGTACGT")
	ab := link(t, g, a, b, 0)

	if err := g.SetOverlap(ab, 4, ExactOverlap); err != nil {
		t.Fatal(err)
	}
	twin, _ := g.EdgeBetween(bRC, aRC)
	if e := g.Edge(twin); e.Overlap() != 4 || e.Kind() != ExactOverlap {
		t.Errorf("twin overlap = %d (%s), want 4 (exact)", e.Overlap(), e.Kind())
	}

	if err := g.SetOverlap(ab, -1, ExactOverlap); !errors.Is(err, ErrNegativeOverlap) {
		t.Errorf("SetOverlap(-1) = %v, want ErrNegativeOverlap", err)
	}
	if err := g.SetOverlap(EdgeID(99), 1, ExactOverlap); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("SetOverlap(99) = %v, want ErrUnknownEdge", err)
	}
	if g.Edge(ab).Overlap() != 4 {
		t.Error("a rejected overlap should leave the edge unchanged")
	}
}
