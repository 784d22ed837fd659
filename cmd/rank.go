package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jjtimmons/asmgraph/config"
	"github.com/jjtimmons/asmgraph/internal/blast"
	"github.com/jjtimmons/asmgraph/internal/io"
	"github.com/jjtimmons/asmgraph/internal/search"
)

// rankCmd scores the paths each query's BLAST hits follow through a graph
var rankCmd = &cobra.Command{
	Use:                        "rank",
	Short:                      "Rank the graph paths that query sequences follow",
	RunE:                       rankExec,
	SuggestionsMinimumDistance: 2,
	Long: `Rank the graph paths that query sequences follow.

Hits come from BLAST: makeblastdb builds a database of the graph's nodes
and the queries are searched against it with blastn, or tblastn for protein
queries. With --hits, the hits are read from an earlier BLAST run's tabular
output (-outfmt 6 or 7) instead, and --db only writes the node FASTA for it. Candidate paths join a query's hits through
the graph and are ranked by e-value product, then mean identity, then how
closely their length matches the query. Results are written as JSON.`,
}

func rankExec(cmd *cobra.Command, args []string) error {
	c, err := config.New()
	if err != nil {
		return err
	}
	g, err := io.ReadGraph(mustString(cmd, "graph"))
	if err != nil {
		return err
	}
	queries, err := io.ReadQueries(mustString(cmd, "queries"))
	if err != nil {
		return err
	}

	filter, err := rankFilter(cmd)
	if err != nil {
		return err
	}
	var (
		aligner search.Aligner
		opts    []search.SearchOption
	)
	if hits := mustString(cmd, "hits"); hits != "" {
		aligner = &blast.Tabular{HitsPath: hits, Dir: mustString(cmd, "db"), Filter: filter}
	} else {
		dir := mustString(cmd, "db")
		if dir == "" {
			if dir, err = os.MkdirTemp("", "asmgraph-blast-"); err != nil {
				return err
			}
			defer os.RemoveAll(dir)
		}
		runner := &blast.Runner{Dir: dir, BinDir: mustString(cmd, "blast-bin"), Filter: filter}
		aligner, opts = runner, append(opts, search.WithLookPath(runner.LookPath))
	}

	ctx := cmd.Context()
	res := search.NewSearch(g, aligner, queries, opts...).Auto(ctx)
	switch res.Status {
	case search.StatusFailed:
		return res.Err
	case search.StatusCancelled:
		return fmt.Errorf("search %s cancelled: %w", res.ID, ctx.Err())
	}
	if c.Verbose {
		stderr.Printf("search %s: %d hits for %d queries", res.ID, res.Hits, queries.Len())
	}

	if err := search.RankQueries(ctx, newTracer(c, g), queries, c.Trace.MaxSteps); err != nil {
		return err
	}

	maxPaths, _ := cmd.Flags().GetInt("max-paths")
	out := io.NewOut(res.ID.String(), queries.Shown(), maxPaths)
	if filename := mustString(cmd, "out"); filename != "" {
		return io.WriteFile(filename, out)
	}
	return io.Write(cmd.OutOrStdout(), out)
}

// rankFilter builds the hit filter from the command's flags
func rankFilter(cmd *cobra.Command) (blast.Filter, error) {
	var f blast.Filter
	f.MinIdentity, _ = cmd.Flags().GetFloat64("identity")
	f.MinAlignmentLength, _ = cmd.Flags().GetInt("min-length")
	f.MinQueryCoverage, _ = cmd.Flags().GetFloat64("min-coverage")
	f.DropContained, _ = cmd.Flags().GetBool("drop-contained")

	if evalue := mustString(cmd, "evalue"); evalue != "" {
		maxEvalue, err := search.ParseSciNot(evalue)
		if err != nil {
			return f, fmt.Errorf("--evalue: %w", err)
		}
		f.MaxEvalue = &maxEvalue
	}
	return f, nil
}

func init() {
	rankCmd.Flags().StringP("graph", "g", "", "assembly graph <YAML>")
	rankCmd.Flags().StringP("queries", "q", "", "query sequences <FASTA>")
	rankCmd.Flags().StringP("hits", "i", "", "BLAST hits of the queries against the nodes, skips running BLAST <TSV>")
	rankCmd.Flags().StringP("out", "o", "", "output file name, stdout if unset <JSON>")
	rankCmd.Flags().StringP("db", "d", "", "directory for BLAST files, a temporary one if unset")
	rankCmd.Flags().String("blast-bin", "", "directory with the BLAST executables, the PATH if unset")
	rankCmd.Flags().Int("max-paths", 0, "most paths reported per query, 0 for all")
	rankCmd.Flags().Float64P("identity", "p", 0, "%-identity threshold for hits")
	rankCmd.Flags().Int("min-length", 0, "shortest alignment kept")
	rankCmd.Flags().Float64("min-coverage", 0, "smallest share of its query a hit must cover")
	rankCmd.Flags().StringP("evalue", "e", "", "largest e-value kept, ex: 1e-10")
	rankCmd.Flags().Bool("drop-contained", false, "drop hits inside another hit on the same node")

	rankCmd.MarkFlagRequired("graph")
	rankCmd.MarkFlagRequired("queries")

	RootCmd.AddCommand(rankCmd)
}
