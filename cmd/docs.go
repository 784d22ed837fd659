package cmd

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// https://pmarsceill.github.io/just-the-docs/docs/navigation-structure/
const rootDoc = `---
layout: default
title: %s
nav_order: %d
has_children: true
permalink: /
---
`

// child command without children
const childDoc = `---
layout: default
title: %s
parent: %s
nav_order: %d
---
`

// docPage is the position of a command's page in the docs navigation
type docPage struct {
	root     bool
	title    string
	navOrder int
}

// map from the base Markdown file name to its page
var docPages = map[string]docPage{
	"asmgraph":         {true, "asmgraph", 0},
	"asmgraph_paths":   {false, "paths", 0},
	"asmgraph_reach":   {false, "reach", 1},
	"asmgraph_overlap": {false, "overlap", 2},
	"asmgraph_rank":    {false, "rank", 3},
	"asmgraph_tools":   {false, "tools", 4},
}

// docsCmd writes Markdown documentation for every command
var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Write Markdown docs for each command",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := mustString(cmd, "dir")
		if err := doc.GenMarkdownTreeCustom(RootCmd, dir, filePrepender, linkHandler); err != nil {
			return fmt.Errorf("failed to write docs to %s: %w", dir, err)
		}
		return nil
	},
}

// filePrepender adds YAML headings that are required by the just-the-docs theme
// https://github.com/spf13/cobra/blob/master/doc/md_docs.md
func filePrepender(filename string) string {
	page, ok := docPages[docBase(filename)]
	switch {
	case !ok:
		return ""
	case page.root:
		return fmt.Sprintf(rootDoc, page.title, page.navOrder)
	default:
		return fmt.Sprintf(childDoc, page.title, RootCmd.Name(), page.navOrder)
	}
}

// linkHandler returns the URL to a documentation page
func linkHandler(filename string) string {
	base := docBase(filename)
	if base == RootCmd.Name() {
		return "/"
	}
	return base
}

func docBase(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, path.Ext(name))
}

func init() {
	docsCmd.Flags().String("dir", "./docs", "directory to write the docs to")
	RootCmd.AddCommand(docsCmd)
}
