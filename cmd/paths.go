package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jjtimmons/asmgraph/config"
	"github.com/jjtimmons/asmgraph/internal/graph"
	"github.com/jjtimmons/asmgraph/internal/io"
)

// pathsCmd lists every branch a walk from an edge can take
var pathsCmd = &cobra.Command{
	Use:                        "paths",
	Short:                      "List the paths leading away from an edge",
	RunE:                       pathsExec,
	SuggestionsMinimumDistance: 2,
	Long: `List the paths leading away from an edge of an assembly graph.

The walk starts at the edge's start node (its end node with --backward) and
follows edges until it runs out of steps, reaches a dead end, or loops back to
where it started. Each line is one path, starting with the origin.`,
}

func pathsExec(cmd *cobra.Command, args []string) error {
	c, err := config.New()
	if err != nil {
		return err
	}
	g, err := io.ReadGraph(mustString(cmd, "graph"))
	if err != nil {
		return err
	}
	e, err := parseEdge(g, mustString(cmd, "edge"))
	if err != nil {
		return err
	}
	backward, _ := cmd.Flags().GetBool("backward")

	paths, err := newTracer(c, g).Paths(cmd.Context(), e, !backward, c.Trace.MaxSteps)
	if err != nil {
		return err
	}

	origin := g.Edge(e).Start()
	if backward {
		origin = g.Edge(e).End()
	}
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), walkString(g, origin, p))
	}
	return nil
}

// walkString names a walk's nodes in the order they were visited
func walkString(g *graph.Graph, origin graph.NodeID, walk []graph.NodeID) string {
	names := make([]string, 0, len(walk)+1)
	names = append(names, g.Name(origin))
	for _, n := range walk {
		names = append(names, g.Name(n))
	}
	return strings.Join(names, ", ")
}

// mustString returns a string flag. Only for flags the command defines
func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}
	return v
}

func init() {
	pathsCmd.Flags().StringP("graph", "g", "", "assembly graph <YAML>")
	pathsCmd.Flags().StringP("edge", "e", "", "edge to walk from, ex: 1+:2+")
	pathsCmd.Flags().BoolP("backward", "b", false, "walk against the edge direction")

	pathsCmd.MarkFlagRequired("graph")
	pathsCmd.MarkFlagRequired("edge")

	RootCmd.AddCommand(pathsCmd)
}
