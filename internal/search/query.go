package search

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"gonum.org/v1/gonum/floats"
)

// SequenceType is whether a query is DNA or protein
type SequenceType int

const (
	// Nucleotide queries are searched with blastn
	Nucleotide SequenceType = iota

	// Protein queries are searched with tblastn. Their coordinates are in
	// amino acids
	Protein
)

func (t SequenceType) String() string {
	if t == Protein {
		return "protein"
	}
	return "nucleotide"
}

// MarshalText writes the type's name
func (t SequenceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText reads a name written by MarshalText
func (t *SequenceType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "nucleotide":
		*t = Nucleotide
	case "protein":
		*t = Protein
	default:
		return fmt.Errorf("unknown sequence type %q", text)
	}
	return nil
}

// nucleotideFraction is the share of letters that must be nucleotide codes
// for a sequence to be read as DNA
const nucleotideFraction = 0.9

// DetectSequenceType guesses whether seq is nucleotide or protein by the share
// of its letters that are A, C, G, T, U or N
func DetectSequenceType(seq []byte) SequenceType {
	letters, nucleotides := 0, 0
	for _, b := range seq {
		r := unicode.ToUpper(rune(b))
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if strings.ContainsRune("ACGTUN", r) {
			nucleotides++
		}
	}

	if letters == 0 || float64(nucleotides)/float64(letters) >= nucleotideFraction {
		return Nucleotide
	}
	return Protein
}

// Query is a sequence searched for in the graph along with the hits found
// for it and the paths ranked against those hits
type Query struct {
	name  string
	seq   []byte
	typ   SequenceType
	shown bool

	mu    sync.Mutex
	hits  []*Hit
	paths []*QueryPath
}

// NewQuery returns a shown query whose type is guessed from its sequence
func NewQuery(name string, seq []byte) *Query {
	return &Query{
		name:  CleanQueryName(name),
		seq:   seq,
		typ:   DetectSequenceType(seq),
		shown: true,
	}
}

// CleanQueryName keeps the part of a FASTA header before the first space
func CleanQueryName(name string) string {
	fields := strings.Fields(strings.TrimPrefix(name, ">"))
	if len(fields) == 0 {
		return "unnamed"
	}
	return fields[0]
}

// Name returns the query's name
func (q *Query) Name() string { return q.name }

// Sequence returns the query's sequence
func (q *Query) Sequence() []byte { return q.seq }

// Type returns whether the query is nucleotide or protein
func (q *Query) Type() SequenceType { return q.typ }

// Len is the query's length in its own units: bases or amino acids
func (q *Query) Len() int { return len(q.seq) }

// Shown reports whether the query is selected for ranking
func (q *Query) Shown() bool { return q.shown }

// SetShown selects or deselects the query
func (q *Query) SetShown(shown bool) { q.shown = shown }

// AddHit appends a hit unless an identical one is already there. It reports
// whether the hit was added
func (q *Query) AddHit(h *Hit) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, existing := range q.hits {
		if *existing == *h {
			return false
		}
	}
	q.hits = append(q.hits, h)
	return true
}

// Hits returns the query's hits in the order they were added
func (q *Query) Hits() []*Hit {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*Hit(nil), q.hits...)
}

// ClearHits drops every hit and ranked path
func (q *Query) ClearHits() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.hits = nil
	q.paths = nil
}

// Paths returns the query's ranked paths, best first
func (q *Query) Paths() []*QueryPath {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*QueryPath(nil), q.paths...)
}

func (q *Query) setPaths(paths []*QueryPath) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.paths = paths
}

// FractionCoveredByHits is the share of the query's positions inside at
// least one of the hits. Nil hits means all of the query's hits
func (q *Query) FractionCoveredByHits(hits []*Hit) float64 {
	if hits == nil {
		hits = q.Hits()
	}
	if q.Len() == 0 || len(hits) == 0 {
		return 0
	}

	covered := make([]float64, q.Len())
	for _, h := range hits {
		for i := max(h.QueryStart, 1); i <= min(h.QueryEnd, q.Len()); i++ {
			covered[i-1] = 1
		}
	}
	return floats.Sum(covered) / float64(q.Len())
}

// Queries is an ordered set of queries with unique names
type Queries struct {
	list   []*Query
	byName map[string]*Query
}

// NewQueries returns an empty set
func NewQueries() *Queries {
	return &Queries{byName: make(map[string]*Query)}
}

// Add appends q, renaming it with a numeric suffix ("_2", "_3", ...) if its
// name is taken. It returns the name q was stored under
func (qs *Queries) Add(q *Query) string {
	name := q.name
	for i := 2; qs.byName[name] != nil; i++ {
		name = fmt.Sprintf("%s_%d", q.name, i)
	}
	q.name = name

	qs.list = append(qs.list, q)
	qs.byName[name] = q
	return name
}

// Get returns the query with a name
func (qs *Queries) Get(name string) (*Query, bool) {
	q, ok := qs.byName[name]
	return q, ok
}

// All returns every query in the order added
func (qs *Queries) All() []*Query {
	return append([]*Query(nil), qs.list...)
}

// Shown returns the queries selected for ranking
func (qs *Queries) Shown() []*Query {
	var shown []*Query
	for _, q := range qs.list {
		if q.shown {
			shown = append(shown, q)
		}
	}
	return shown
}

// Len is the number of queries
func (qs *Queries) Len() int {
	return len(qs.list)
}

// ClearHits drops the hits and paths of every query
func (qs *Queries) ClearHits() {
	for _, q := range qs.list {
		q.ClearHits()
	}
}

// HitCount is the total number of hits across all queries
func (qs *Queries) HitCount() int {
	total := 0
	for _, q := range qs.list {
		total += len(q.Hits())
	}
	return total
}
