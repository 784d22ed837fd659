package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjtimmons/asmgraph/config"
	"github.com/jjtimmons/asmgraph/internal/io"
)

// reachCmd checks whether every walk from an edge ends at a target node
var reachCmd = &cobra.Command{
	Use:                        "reach",
	Short:                      "Check whether an edge leads only to a target node",
	RunE:                       reachExec,
	SuggestionsMinimumDistance: 2,
	Long: `Check whether every walk from an edge reaches a target node.

A walk fails if it hits a dead end, runs out of steps, or loops back to its
origin before finding the target. With --rc the target's reverse complement
counts as the target too. Prints "true" or "false".`,
}

func reachExec(cmd *cobra.Command, args []string) error {
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
	target, err := g.MustNode(mustString(cmd, "target"))
	if err != nil {
		return err
	}
	backward, _ := cmd.Flags().GetBool("backward")
	rc, _ := cmd.Flags().GetBool("rc")

	reached, err := newTracer(c, g).LeadsOnlyTo(cmd.Context(), e, !backward, target, c.Trace.MaxSteps, rc)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reached)
	return nil
}

func init() {
	reachCmd.Flags().StringP("graph", "g", "", "assembly graph <YAML>")
	reachCmd.Flags().StringP("edge", "e", "", "edge to walk from, ex: 1+:2+")
	reachCmd.Flags().StringP("target", "t", "", "node every walk must reach, ex: 3-")
	reachCmd.Flags().BoolP("backward", "b", false, "walk against the edge direction")
	reachCmd.Flags().Bool("rc", false, "accept the target's reverse complement")

	reachCmd.MarkFlagRequired("graph")
	reachCmd.MarkFlagRequired("edge")
	reachCmd.MarkFlagRequired("target")

	RootCmd.AddCommand(reachCmd)
}
