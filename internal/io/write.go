package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jjtimmons/asmgraph/internal/search"
)

// PathReport is one ranked path of a query
type PathReport struct {
	// Rank starts at 1 for the best path
	Rank int `json:"rank"`

	// Path is the node list, with clip positions when partial
	Path string `json:"path"`

	Length int `json:"length"`

	EvalueProduct search.SciNot `json:"evalueProduct"`

	MeanPercentIdentity float64 `json:"meanPercentIdentity"`

	RelativeLengthDiscrepancy float64 `json:"relativeLengthDiscrepancy"`
	AbsoluteLengthDifference  int     `json:"absoluteLengthDifference"`

	PathQueryCoverage float64 `json:"pathQueryCoverage"`
	HitsQueryCoverage float64 `json:"hitsQueryCoverage"`

	Mismatches int `json:"mismatches"`
	GapOpens   int `json:"gapOpens"`

	QueryStart int `json:"queryStart"`
	QueryEnd   int `json:"queryEnd"`

	// Sequence is the path's merged sequence, if every node has one
	Sequence string `json:"sequence,omitempty"`
}

// QueryReport is the ranking for a single query
type QueryReport struct {
	Name   string              `json:"name"`
	Type   search.SequenceType `json:"type"`
	Length int                 `json:"length"`
	Hits   int                 `json:"hits"`
	Paths  []PathReport        `json:"paths"`
}

// Out is the result output from a ranking run
type Out struct {
	// unix
	Time int64 `json:"time"`

	// Run is the id of the search the hits came from
	Run string `json:"run,omitempty"`

	Queries []QueryReport `json:"queries"`
}

// NewOut builds a report from ranked queries. maxPaths caps the paths listed
// per query, 0 lists them all
func NewOut(run string, queries []*search.Query, maxPaths int) Out {
	out := Out{
		Time:    time.Now().Unix(),
		Run:     run,
		Queries: []QueryReport{},
	}

	for _, q := range queries {
		qr := QueryReport{
			Name:   q.Name(),
			Type:   q.Type(),
			Length: q.Len(),
			Hits:   len(q.Hits()),
			Paths:  []PathReport{},
		}

		paths := q.Paths()
		if maxPaths > 0 && len(paths) > maxPaths {
			paths = paths[:maxPaths]
		}
		for i, qp := range paths {
			qr.Paths = append(qr.Paths, newPathReport(i+1, qp))
		}
		out.Queries = append(out.Queries, qr)
	}
	return out
}

func newPathReport(rank int, qp *search.QueryPath) PathReport {
	p := qp.Path()
	pr := PathReport{
		Rank:                      rank,
		Path:                      p.String(),
		Length:                    p.Len(),
		EvalueProduct:             qp.EvalueProduct(),
		MeanPercentIdentity:       qp.MeanPercentIdentity(),
		RelativeLengthDiscrepancy: qp.RelativeLengthDiscrepancy(),
		AbsoluteLengthDifference:  qp.AbsoluteLengthDifference(),
		PathQueryCoverage:         qp.PathQueryCoverage(),
		HitsQueryCoverage:         qp.HitsQueryCoverage(),
		Mismatches:                qp.TotalMismatches(),
		GapOpens:                  qp.TotalGapOpens(),
		QueryStart:                qp.QueryStart(),
		QueryEnd:                  qp.QueryEnd(),
	}
	if seq, err := p.MergedSequence(); err == nil {
		pr.Sequence = string(seq)
	}
	return pr
}

// Write serializes the report as indented JSON
func Write(w io.Writer, out Out) error {
	output, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize the output data: %w", err)
	}
	if _, err := w.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write the results: %w", err)
	}
	return nil
}

// WriteFile writes the report to the fs at the output path
func WriteFile(filename string, out Out) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to write the results to the file system: %w", err)
	}
	if err := Write(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
