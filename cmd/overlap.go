package cmd

import (
	"math/rand/v2"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jjtimmons/asmgraph/config"
	"github.com/jjtimmons/asmgraph/internal/io"
)

// overlapCmd fills in the unknown overlaps of a graph from its sequences
var overlapCmd = &cobra.Command{
	Use:                        "overlap",
	Short:                      "Detect the exact overlaps of edges without one",
	RunE:                       overlapExec,
	SuggestionsMinimumDistance: 2,
	Long: `Detect the exact overlap of every edge whose overlap isn't in the graph file.

Each overlap length between --min and --max is tested against the node
sequences, starting from a random length so no end of the range is favored.
The graph is written back out as YAML with the overlaps filled in.`,
}

func overlapExec(cmd *cobra.Command, args []string) error {
	c, err := config.New()
	if err != nil {
		return err
	}
	g, err := io.ReadGraph(mustString(cmd, "graph"))
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rnd := rand.New(rand.NewPCG(seed, seed))

	found, err := g.AutoDetectAllOverlaps(cmd.Context(), c.OverlapRange(), rnd)
	if err != nil {
		return err
	}
	if c.Verbose {
		stderr.Printf("found %d overlaps (seed %d)", found, seed)
	}

	if filename := mustString(cmd, "out"); filename != "" {
		return io.WriteGraphFile(filename, g)
	}
	return io.WriteGraph(cmd.OutOrStdout(), g)
}

func init() {
	overlapCmd.Flags().StringP("graph", "g", "", "assembly graph <YAML>")
	overlapCmd.Flags().StringP("out", "o", "", "output graph file, stdout if unset <YAML>")
	overlapCmd.Flags().Int("min", config.DefaultOverlapMin, "shortest overlap to test")
	overlapCmd.Flags().Int("max", config.DefaultOverlapMax, "longest overlap to test")
	overlapCmd.Flags().Uint64("seed", 0, "random seed, 0 for a random one")

	overlapCmd.MarkFlagRequired("graph")

	viper.BindPFlag("overlap.min", overlapCmd.Flags().Lookup("min"))
	viper.BindPFlag("overlap.max", overlapCmd.Flags().Lookup("max"))
	viper.BindPFlag("seed", overlapCmd.Flags().Lookup("seed"))

	RootCmd.AddCommand(overlapCmd)
}
