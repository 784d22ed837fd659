package io

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jjtimmons/asmgraph/internal/graph"
)

// GraphFile is the YAML layout of an assembly graph. Nodes are listed once,
// without a strand sign, and edges name signed nodes:
//
//	nodes:
//	  - name: "1"
//	    depth: 12.5
//	    seq: ACGTTGCA
//	  - name: "2"
//	    length: 5000
//	edges:
//	  - from: 1+
//	    to: 2-
//	    overlap: 4
//
// An edge without an overlap has an unknown overlap, to be detected from the
// node sequences
type GraphFile struct {
	Nodes []NodeSpec `yaml:"nodes"`
	Edges []EdgeSpec `yaml:"edges"`
}

// NodeSpec is a node pair. Seq wins over Length when both are set
type NodeSpec struct {
	Name   string  `yaml:"name"`
	Depth  float64 `yaml:"depth,omitempty"`
	Seq    string  `yaml:"seq,omitempty"`
	Length int     `yaml:"length,omitempty"`
}

// EdgeSpec is an edge between two signed nodes. Its twin is implied
type EdgeSpec struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Overlap *int   `yaml:"overlap,omitempty"`
}

// ReadGraph reads a YAML graph file
func ReadGraph(filename string) (*graph.Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph file: %w", err)
	}
	defer f.Close()

	g, err := DecodeGraph(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return g, nil
}

// DecodeGraph builds a graph from YAML. Unknown keys are an error
func DecodeGraph(r io.Reader) (*graph.Graph, error) {
	var gf GraphFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&gf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse graph: %w", err)
	}
	return gf.Build()
}

// Build creates the graph the file describes and checks it
func (gf *GraphFile) Build() (*graph.Graph, error) {
	g := graph.New()

	for _, n := range gf.Nodes {
		var seq []byte
		if n.Seq != "" {
			seq = []byte(n.Seq)
		}
		pos, _, err := g.AddNodePair(n.Name, n.Depth, seq)
		if err != nil {
			return nil, err
		}
		if seq == nil && n.Length > 0 {
			if err := g.SetLength(pos, n.Length); err != nil {
				return nil, err
			}
		}
	}

	for i, e := range gf.Edges {
		from, err := g.MustNode(e.From)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i+1, err)
		}
		to, err := g.MustNode(e.To)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i+1, err)
		}

		overlap, kind := 0, graph.UnknownOverlap
		if e.Overlap != nil {
			overlap, kind = *e.Overlap, graph.ExactOverlap
		}
		if _, err := g.AddEdge(from, to, overlap, kind); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i+1, err)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewGraphFile describes a graph in its file layout. Each edge pair is
// written once, from its positive edge. Overlaps that are still unknown are
// left out
func NewGraphFile(g *graph.Graph) *GraphFile {
	gf := &GraphFile{}

	for _, id := range g.Nodes() {
		n := g.Node(id)
		if !n.IsPositive() {
			continue
		}
		spec := NodeSpec{Name: n.NameWithoutSign(), Depth: n.Depth()}
		if g.SequenceMissing(id) {
			spec.Length = n.Len()
		} else {
			spec.Seq = string(g.Sequence(id))
		}
		gf.Nodes = append(gf.Nodes, spec)
	}

	edges := g.Edges()
	g.SortEdges(edges)
	for _, id := range edges {
		if !g.IsPositiveEdge(id) {
			continue
		}
		e := g.Edge(id)
		spec := EdgeSpec{From: g.Name(e.Start()), To: g.Name(e.End())}
		if e.Kind() != graph.UnknownOverlap {
			overlap := e.Overlap()
			spec.Overlap = &overlap
		}
		gf.Edges = append(gf.Edges, spec)
	}
	return gf
}

// WriteGraph writes a graph as YAML
func WriteGraph(w io.Writer, g *graph.Graph) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewGraphFile(g)); err != nil {
		return fmt.Errorf("failed to serialize the graph: %w", err)
	}
	return enc.Close()
}

// WriteGraphFile writes a graph as YAML to the fs at filename
func WriteGraphFile(filename string, g *graph.Graph) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to write the graph to the file system: %w", err)
	}
	if err := WriteGraph(f, g); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}
	return nil
}
