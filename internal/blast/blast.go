// Package blast reads NCBI BLAST results into graph search hits
package blast

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jjtimmons/asmgraph/internal/graph"
	"github.com/jjtimmons/asmgraph/internal/path"
	"github.com/jjtimmons/asmgraph/internal/search"
)

// Programs are the BLAST executables a full graph search needs: one to build
// the database and one per query type
var Programs = []string{"makeblastdb", "blastn", "tblastn"}

// databaseFile is the FASTA of node sequences the database is built from
const databaseFile = "all_nodes.fasta"

// FindTools looks up each of the BLAST Programs. A nil lookPath uses
// exec.LookPath
func FindTools(lookPath func(string) (string, error)) (map[string]string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return search.FindTools(Programs, lookPath)
}

// writeDatabase writes the positive strand of every node with a sequence to
// dir as FASTA, named by node name, ex: ">12+"
func writeDatabase(ctx context.Context, g *graph.Graph, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create a BLAST dir: %w", err)
	}

	out := filepath.Join(dir, databaseFile)
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create BLAST database input at %s: %w", out, err)
	}
	defer f.Close()

	for _, n := range g.Nodes() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !g.Node(n).IsPositive() || g.SequenceMissing(n) || g.Len(n) == 0 {
			continue
		}

		p, err := path.FromOrderedNodes(g, []graph.NodeID{n}, false)
		if err != nil {
			return "", err
		}
		record, err := p.FASTA(g.Name(n))
		if err != nil {
			return "", err
		}
		if _, err := f.WriteString(record); err != nil {
			return "", fmt.Errorf("failed writing %s: %w", out, err)
		}
	}
	return out, f.Close()
}
