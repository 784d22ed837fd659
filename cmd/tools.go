package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jjtimmons/asmgraph/internal/blast"
)

// lookPath finds executables. Replaced in tests
var lookPath func(string) (string, error)

// toolsCmd reports where the BLAST programs are installed
var toolsCmd = &cobra.Command{
	Use:                        "tools",
	Short:                      "Check that the BLAST programs are installed",
	SuggestionsMinimumDistance: 2,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := blast.FindTools(lookPath)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(paths))
		for name := range paths {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, paths[name])
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(toolsCmd)
}
