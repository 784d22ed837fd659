package blast

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/jjtimmons/asmgraph/internal/graph"
	"github.com/jjtimmons/asmgraph/internal/search"
)

// databaseName is the BLAST database built from the node FASTA
const databaseName = "all_nodes"

// Runner is an aligner that runs the BLAST executables: makeblastdb over the
// graph's nodes, then blastn for nucleotide queries and tblastn for protein
// ones
type Runner struct {
	// Dir holds the database, query and output files
	Dir string

	// BinDir, if set, is where the BLAST executables are. Otherwise they're
	// found on the PATH
	BinDir string

	// Threads is the number of BLAST threads. 0 uses all but one CPU
	Threads int

	// Filter drops weak hits
	Filter Filter
}

// Tools are the BLAST Programs
func (r *Runner) Tools() []string {
	return Programs
}

// LookPath finds a program the way the Runner will run it
func (r *Runner) LookPath(name string) (string, error) {
	return exec.LookPath(r.program(name))
}

func (r *Runner) program(name string) string {
	if r.BinDir == "" {
		return name
	}
	return filepath.Join(r.BinDir, name)
}

func (r *Runner) threads() int {
	if r.Threads > 0 {
		return r.Threads
	}
	return max(runtime.NumCPU()-1, 1)
}

// BuildDatabase writes the node FASTA and runs makeblastdb on it
func (r *Runner) BuildDatabase(ctx context.Context, g *graph.Graph) error {
	fasta, err := writeDatabase(ctx, g, r.Dir)
	if err != nil {
		return err
	}

	// https://www.ncbi.nlm.nih.gov/books/NBK279688/
	return r.run(ctx, "makeblastdb",
		"-in", fasta,
		"-dbtype", "nucl",
		"-out", filepath.Join(r.Dir, databaseName),
	)
}

// Search runs each query against the database with the program for its
// sequence type and adds the hits that pass the filter
func (r *Runner) Search(ctx context.Context, g *graph.Graph, queries []*search.Query) error {
	byType := make(map[search.SequenceType][]*search.Query)
	for _, q := range queries {
		byType[q.Type()] = append(byType[q.Type()], q)
	}

	for _, typ := range []search.SequenceType{search.Nucleotide, search.Protein} {
		if len(byType[typ]) == 0 {
			continue
		}
		if err := r.search(ctx, g, typ, byType[typ]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) search(ctx context.Context, g *graph.Graph, typ search.SequenceType, queries []*search.Query) error {
	program := "blastn"
	if typ == search.Protein {
		program = "tblastn"
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create a BLAST dir: %w", err)
	}
	in := filepath.Join(r.Dir, typ.String()+"_queries.fasta")
	out := filepath.Join(r.Dir, typ.String()+"_hits.tsv")
	if err := writeQueries(in, queries); err != nil {
		return err
	}

	// https://www.ncbi.nlm.nih.gov/books/NBK279682/
	err := r.run(ctx, program,
		"-db", filepath.Join(r.Dir, databaseName),
		"-query", in,
		"-out", out,
		"-outfmt", "6",
		"-num_threads", strconv.Itoa(r.threads()),
	)
	if err != nil {
		return err
	}

	f, err := os.Open(out)
	if err != nil {
		return fmt.Errorf("failed to read %s output: %w", program, err)
	}
	defer f.Close()

	if err := addHits(ctx, g, queries, f, r.Filter); err != nil {
		return fmt.Errorf("failed to parse %s output: %w", program, err)
	}
	return nil
}

// run executes a BLAST program and waits on it to finish
func (r *Runner) run(ctx context.Context, program string, args ...string) error {
	cmd := exec.CommandContext(ctx, r.program(program), args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to execute %s: %w: %s", program, err, output)
	}
	return nil
}

// writeQueries writes queries to a FASTA file
func writeQueries(filename string, queries []*search.Query) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create BLAST query file: %w", err)
	}
	for _, q := range queries {
		if _, err := fmt.Fprintf(f, ">%s\n%s\n", q.Name(), q.Sequence()); err != nil {
			f.Close()
			return fmt.Errorf("failed writing %s: %w", filename, err)
		}
	}
	return f.Close()
}
