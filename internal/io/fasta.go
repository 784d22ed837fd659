// Package io reads the CLI's inputs (FASTA queries and YAML graphs) and
// writes its ranking reports
package io

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jjtimmons/asmgraph/internal/search"
)

// unwantedChars is anything that isn't a residue code or a stop
var unwantedChars = regexp.MustCompile(`[^A-Za-z*]`)

// FASTARecord is one entry of a FASTA file
type FASTARecord struct {
	ID  string
	Seq string
}

// ReadFASTA reads every record in a FASTA file. Sequence lines are joined and
// anything other than letters and "*" is removed
func ReadFASTA(r io.Reader) ([]FASTARecord, error) {
	dat, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fasta: %w", err)
	}

	// split by newlines
	lines := strings.Split(strings.ReplaceAll(string(dat), "\r\n", "\n"), "\n")

	var records []FASTARecord
	var seq strings.Builder
	flush := func() {
		if len(records) > 0 {
			records[len(records)-1].Seq = unwantedChars.ReplaceAllString(seq.String(), "")
		}
		seq.Reset()
	}

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, ">"):
			flush()
			records = append(records, FASTARecord{ID: strings.TrimSpace(line[1:])})
		case strings.HasPrefix(line, ";"):
			// old style comment
		case len(records) == 0 && strings.TrimSpace(line) != "":
			return nil, fmt.Errorf("line %d: sequence before the first header", i+1)
		default:
			seq.WriteString(line)
		}
	}
	flush()

	if len(records) == 0 {
		return nil, fmt.Errorf("no fasta records found")
	}
	return records, nil
}

// ReadQueries reads a FASTA file into queries named by the first word of each
// header
func ReadQueries(path string) (*search.Queries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fasta file: %w", err)
	}
	defer f.Close()

	records, err := ReadFASTA(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	queries := search.NewQueries()
	for _, r := range records {
		queries.Add(search.NewQuery(r.ID, []byte(r.Seq)))
	}
	return queries, nil
}
