// Package cmd is for command line interactions with the asmgraph application
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/jjtimmons/asmgraph/config"
	"github.com/jjtimmons/asmgraph/internal/graph"
	"github.com/jjtimmons/asmgraph/internal/metrics"
	"github.com/jjtimmons/asmgraph/internal/traverse"
)

// stderr is for logging to stderr without a timestamp
var stderr = log.New(os.Stderr, "", 0)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "asmgraph",
	Short: `Trace paths through a genome assembly graph and rank the paths
query sequences follow through it`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if !viper.GetBool("metrics") {
			return nil
		}
		return writeMetrics(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		stderr.Fatalf("%v", err)
	}
}

func init() {
	// settings is an optional parameter for a settings file that overrides the defaults
	RootCmd.PersistentFlags().StringP("settings", "s", "", "settings file <YAML>")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")
	RootCmd.PersistentFlags().Bool("metrics", false, "print collected metrics to stderr on exit")
	RootCmd.PersistentFlags().IntP("steps", "n", config.DefaultMaxSteps, "maximum nodes walked past the start of a trace")

	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("metrics", RootCmd.PersistentFlags().Lookup("metrics"))
	viper.BindPFlag("trace.max-steps", RootCmd.PersistentFlags().Lookup("steps"))
}

// writeMetrics prints every registered metric to the command's stderr
func writeMetrics(cmd *cobra.Command) error {
	return metrics.Write(cmd.ErrOrStderr(), prometheus.DefaultGatherer)
}

// newTracer returns a tracer over g that logs its progress now and then when
// verbose
func newTracer(c *config.Config, g *graph.Graph) *traverse.Tracer {
	if !c.Verbose {
		return traverse.New(g)
	}

	every := rate.Sometimes{Interval: c.Trace.ProgressInterval}
	return traverse.New(g, traverse.WithProgress(func(p traverse.Progress) {
		every.Do(func() {
			stderr.Printf("%s: %d steps, depth %d", p.Walk, p.Steps, p.Depth)
		})
	}))
}

// parseEdge finds the edge named like "1+:2-"
func parseEdge(g *graph.Graph, name string) (graph.EdgeID, error) {
	from, to, ok := strings.Cut(name, ":")
	if !ok {
		return graph.NoEdge, fmt.Errorf("edge %q: expected <from>:<to>, ex: 1+:2-", name)
	}

	start, err := g.MustNode(from)
	if err != nil {
		return graph.NoEdge, err
	}
	end, err := g.MustNode(to)
	if err != nil {
		return graph.NoEdge, err
	}

	e, ok := g.EdgeBetween(start, end)
	if !ok {
		return graph.NoEdge, fmt.Errorf("no edge from %s to %s", from, to)
	}
	return e, nil
}
