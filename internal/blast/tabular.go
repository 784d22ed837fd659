package blast

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jjtimmons/asmgraph/internal/graph"
	"github.com/jjtimmons/asmgraph/internal/search"
)

// tabularColumns is the column count of BLAST's default tabular output:
// qseqid sseqid pident length mismatch gapopen qstart qend sstart send evalue bitscore
const tabularColumns = 12

// Record is one line of tabular output: a hit and the query it belongs to
type Record struct {
	Query string
	Hit   *search.Hit
}

// Tabular is an aligner that reads hits from a finished BLAST run's tabular
// output (-outfmt 6 or 7) instead of running BLAST itself
type Tabular struct {
	// HitsPath is the tabular output file
	HitsPath string

	// Dir, if set, receives the node FASTA a BLAST database is built from
	Dir string

	// Filter drops weak hits
	Filter Filter
}

// Tools is empty: the hits are already on disk
func (t *Tabular) Tools() []string {
	return nil
}

// BuildDatabase writes the graph's nodes as FASTA to Dir, so the hits file
// can be made with makeblastdb and blastn against it
func (t *Tabular) BuildDatabase(ctx context.Context, g *graph.Graph) error {
	if t.Dir == "" {
		return nil
	}
	_, err := writeDatabase(ctx, g, t.Dir)
	return err
}

// Search reads the hits file and adds each hit to the query it names. Hits
// for queries that aren't in the list are ignored
func (t *Tabular) Search(ctx context.Context, g *graph.Graph, queries []*search.Query) error {
	f, err := os.Open(t.HitsPath)
	if err != nil {
		return fmt.Errorf("failed to read BLAST output: %w", err)
	}
	defer f.Close()

	if err := addHits(ctx, g, queries, f, t.Filter); err != nil {
		return fmt.Errorf("failed to parse BLAST output %s: %w", t.HitsPath, err)
	}
	return nil
}

// addHits parses tabular output and adds each hit that passes the filter to
// the query it names
func addHits(ctx context.Context, g *graph.Graph, queries []*search.Query, r io.Reader, filter Filter) error {
	records, err := ParseTabular(ctx, r, g)
	if err != nil {
		return err
	}

	byName := make(map[string]*search.Query, len(queries))
	for _, q := range queries {
		byName[q.Name()] = q
	}

	grouped := make(map[*search.Query][]*search.Hit)
	for _, rec := range records {
		if q, ok := byName[rec.Query]; ok {
			grouped[q] = append(grouped[q], rec.Hit)
		}
	}

	for _, q := range queries {
		for _, h := range filter.apply(q, grouped[q]) {
			q.AddHit(h)
		}
	}
	return nil
}

// ParseTabular reads BLAST tabular output, mapping subjects onto graph nodes.
// Comment and blank lines are skipped. A hit on the subject's reverse strand
// (sstart > send) is moved to the reverse complement node with its
// coordinates flipped
func ParseTabular(ctx context.Context, r io.Reader, g *graph.Graph) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := strings.TrimSpace(scanner.Text())
		// comment lines start with a #
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rec, err := parseLine(text, g)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func parseLine(text string, g *graph.Graph) (Record, error) {
	cols := strings.Fields(text)
	if len(cols) < tabularColumns {
		return Record{}, fmt.Errorf("expected %d columns, found %d", tabularColumns, len(cols))
	}

	node, err := subjectNode(g, cols[1])
	if err != nil {
		return Record{}, err
	}

	ints := make([]int, 0, 7)
	for _, i := range []int{3, 4, 5, 6, 7, 8, 9} {
		v, err := strconv.Atoi(cols[i])
		if err != nil {
			return Record{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		ints = append(ints, v)
	}
	length, mismatch, gapOpen := ints[0], ints[1], ints[2]
	qStart, qEnd, sStart, sEnd := ints[3], ints[4], ints[5], ints[6]

	identity, err := strconv.ParseFloat(cols[2], 64)
	if err != nil {
		return Record{}, fmt.Errorf("percent identity: %w", err)
	}
	evalue, err := search.ParseSciNot(cols[10])
	if err != nil {
		return Record{}, err
	}
	bitScore, err := strconv.ParseFloat(cols[11], 64)
	if err != nil {
		return Record{}, fmt.Errorf("bit score: %w", err)
	}

	// direction not guaranteed
	if sStart > sEnd {
		nodeLen := g.Len(node)
		node = g.RC(node)
		sStart, sEnd = nodeLen-sStart+1, nodeLen-sEnd+1
	}

	hit := &search.Hit{
		Node:            node,
		NodeStart:       sStart,
		NodeEnd:         sEnd,
		QueryStart:      qStart,
		QueryEnd:        qEnd,
		PercentIdentity: identity,
		AlignmentLength: length,
		Mismatches:      mismatch,
		GapOpens:        gapOpen,
		Evalue:          evalue,
		BitScore:        bitScore,
	}
	if err := hit.Validate(g); err != nil {
		return Record{}, err
	}
	return Record{Query: cols[0], Hit: hit}, nil
}

// subjectNode finds the node a subject id names. Ids without a strand sign
// are the positive strand
func subjectNode(g *graph.Graph, id string) (graph.NodeID, error) {
	if !strings.HasSuffix(id, "+") && !strings.HasSuffix(id, "-") {
		id += "+"
	}
	return g.MustNode(id)
}
