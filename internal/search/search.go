// Package search is for finding queries in the assembly graph: collecting an
// aligner's hits per query, then scoring and ranking the paths that could
// explain each query
package search

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

var (
	// ErrToolMissing is returned when an aligner's program isn't installed
	ErrToolMissing = errors.New("alignment tool not found")

	// ErrBusy is returned when a build or search is already running
	ErrBusy = errors.New("already in progress")
)

// Aligner finds hits for queries in a graph
type Aligner interface {
	// Tools names the programs the aligner needs on the PATH
	Tools() []string

	// BuildDatabase prepares the graph for searching
	BuildDatabase(ctx context.Context, g *graph.Graph) error

	// Search adds hits to the queries
	Search(ctx context.Context, g *graph.Graph, queries []*Query) error
}

// Status is the outcome of a build or search
type Status int

const (
	// StatusOK means the step finished
	StatusOK Status = iota

	// StatusFailed means the step stopped with an error
	StatusFailed

	// StatusCancelled means the step's context ended first. It is neither
	// success nor failure
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result reports one build or search
type Result struct {
	// ID identifies the run in logs and reports
	ID uuid.UUID

	Status Status

	// Err is set when Status is StatusFailed
	Err error

	// Hits is the number of hits held by the queries afterward
	Hits int
}

// Search coordinates an aligner over a graph and its queries. Only one build
// and one search can run at a time
type Search struct {
	g        *graph.Graph
	aligner  Aligner
	queries  *Queries
	lookPath func(string) (string, error)

	building  atomic.Bool
	searching atomic.Bool
}

// SearchOption configures a Search
type SearchOption func(*Search)

// WithLookPath replaces exec.LookPath for finding the aligner's tools
func WithLookPath(fn func(string) (string, error)) SearchOption {
	return func(s *Search) {
		s.lookPath = fn
	}
}

// NewSearch returns a coordinator for an aligner over g
func NewSearch(g *graph.Graph, a Aligner, queries *Queries, opts ...SearchOption) *Search {
	s := &Search{
		g:        g,
		aligner:  a,
		queries:  queries,
		lookPath: exec.LookPath,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Queries returns the queries being searched
func (s *Search) Queries() *Queries {
	return s.queries
}

// FindTools resolves each program name with lookPath, failing with
// ErrToolMissing on the first one that isn't found
func FindTools(names []string, lookPath func(string) (string, error)) (map[string]string, error) {
	paths := make(map[string]string, len(names))
	for _, name := range names {
		p, err := lookPath(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", name, ErrToolMissing, err)
		}
		paths[name] = p
	}
	return paths, nil
}

// BuildDatabase has the aligner prepare the graph
func (s *Search) BuildDatabase(ctx context.Context) Result {
	r := Result{ID: uuid.New()}
	if _, err := FindTools(s.aligner.Tools(), s.lookPath); err != nil {
		return r.fail(err)
	}
	if !s.building.CompareAndSwap(false, true) {
		return r.fail(fmt.Errorf("build: %w", ErrBusy))
	}
	defer s.building.Store(false)

	err := s.aligner.BuildDatabase(ctx, s.g)
	switch {
	case ctx.Err() != nil:
		r.Status = StatusCancelled
	case err != nil:
		return r.fail(fmt.Errorf("building database: %w", err))
	}
	return r
}

// Run clears every query's hits and searches for new ones. If the search
// fails or is cancelled, the partial hits are cleared again
func (s *Search) Run(ctx context.Context) Result {
	r := Result{ID: uuid.New()}
	if _, err := FindTools(s.aligner.Tools(), s.lookPath); err != nil {
		return r.fail(err)
	}
	if !s.searching.CompareAndSwap(false, true) {
		return r.fail(fmt.Errorf("search: %w", ErrBusy))
	}
	defer s.searching.Store(false)

	s.queries.ClearHits()
	err := s.aligner.Search(ctx, s.g, s.queries.All())
	switch {
	case ctx.Err() != nil:
		s.queries.ClearHits()
		r.Status = StatusCancelled
	case err != nil:
		s.queries.ClearHits()
		return r.fail(fmt.Errorf("searching: %w", err))
	}

	r.Hits = s.queries.HitCount()
	return r
}

// Auto builds the database and runs the search, stopping at the first step
// that doesn't finish
func (s *Search) Auto(ctx context.Context) Result {
	if r := s.BuildDatabase(ctx); r.Status != StatusOK {
		return r
	}
	return s.Run(ctx)
}

func (r Result) fail(err error) Result {
	r.Status = StatusFailed
	r.Err = err
	return r
}
