package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

// fakeAligner runs the given funcs instead of a real aligner
type fakeAligner struct {
	tools  []string
	build  func(ctx context.Context) error
	search func(ctx context.Context, queries []*Query) error
}

func (f *fakeAligner) Tools() []string { return f.tools }

func (f *fakeAligner) BuildDatabase(ctx context.Context, _ *graph.Graph) error {
	if f.build == nil {
		return nil
	}
	return f.build(ctx)
}

func (f *fakeAligner) Search(ctx context.Context, _ *graph.Graph, queries []*Query) error {
	if f.search == nil {
		return nil
	}
	return f.search(ctx, queries)
}

func found(string) (string, error) { return "/usr/bin/tool", nil }

func missing(name string) (string, error) { return "", errors.New("not on PATH") }

func addOneHit(_ context.Context, queries []*Query) error {
	for _, q := range queries {
		q.AddHit(&Hit{QueryStart: 1, QueryEnd: 4})
	}
	return nil
}

func newQueries() *Queries {
	qs := NewQueries()
	qs.Add(NewQuery("a", []byte("ACGT")))
	qs.Add(NewQuery("b", []byte("ACGT")))
	return qs
}

func TestSearch_Run(t *testing.T) {
	qs := newQueries()
	s := NewSearch(graph.New(), &fakeAligner{tools: []string{"blastn"}, search: addOneHit}, qs, WithLookPath(found))

	r := s.Run(context.Background())
	require.NoError(t, r.Err)
	assert.Equal(t, StatusOK, r.Status)
	assert.Equal(t, 2, r.Hits)
	assert.NotEqual(t, uuid.Nil, r.ID)

	// a second run starts from scratch rather than piling up hits
	r = s.Run(context.Background())
	assert.Equal(t, 2, r.Hits)
}

func TestSearch_toolMissing(t *testing.T) {
	qs := newQueries()
	a, _ := qs.Get("a")
	a.AddHit(&Hit{QueryStart: 1, QueryEnd: 2})

	s := NewSearch(graph.New(), &fakeAligner{tools: []string{"blastn"}, search: addOneHit}, qs, WithLookPath(missing))

	for _, r := range []Result{s.BuildDatabase(context.Background()), s.Run(context.Background())} {
		assert.Equal(t, StatusFailed, r.Status)
		assert.ErrorIs(t, r.Err, ErrToolMissing)
		assert.Contains(t, r.Err.Error(), "blastn")
	}
	assert.Len(t, a.Hits(), 1, "the queries are left alone")
}

func TestSearch_busy(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	aligner := &fakeAligner{
		search: func(ctx context.Context, queries []*Query) error {
			close(started)
			<-release
			return nil
		},
	}
	s := NewSearch(graph.New(), aligner, newQueries())

	done := make(chan Result)
	go func() { done <- s.Run(context.Background()) }()
	<-started

	r := s.Run(context.Background())
	assert.Equal(t, StatusFailed, r.Status)
	assert.ErrorIs(t, r.Err, ErrBusy)

	close(release)
	assert.Equal(t, StatusOK, (<-done).Status)
}

func TestSearch_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	aligner := &fakeAligner{
		search: func(ctx context.Context, queries []*Query) error {
			_ = addOneHit(ctx, queries)
			cancel()
			return ctx.Err()
		},
	}
	qs := newQueries()
	s := NewSearch(graph.New(), aligner, qs)

	r := s.Run(ctx)
	assert.Equal(t, StatusCancelled, r.Status)
	assert.NoError(t, r.Err)
	assert.Zero(t, qs.HitCount(), "partial hits are dropped")
}

func TestSearch_failed(t *testing.T) {
	aligner := &fakeAligner{
		search: func(ctx context.Context, queries []*Query) error {
			_ = addOneHit(ctx, queries)
			return errors.New("bad output")
		},
	}
	qs := newQueries()

	r := NewSearch(graph.New(), aligner, qs).Run(context.Background())
	assert.Equal(t, StatusFailed, r.Status)
	assert.EqualError(t, r.Err, "searching: bad output")
	assert.Zero(t, qs.HitCount())
}

func TestSearch_Auto(t *testing.T) {
	searched := false
	aligner := &fakeAligner{
		build: func(context.Context) error { return errors.New("no space left") },
		search: func(context.Context, []*Query) error {
			searched = true
			return nil
		},
	}

	r := NewSearch(graph.New(), aligner, newQueries()).Auto(context.Background())
	assert.Equal(t, StatusFailed, r.Status)
	assert.False(t, searched, "a failed build stops before searching")

	aligner.build = nil
	r = NewSearch(graph.New(), aligner, newQueries()).Auto(context.Background())
	assert.Equal(t, StatusOK, r.Status)
	assert.True(t, searched)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "cancelled", StatusCancelled.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
