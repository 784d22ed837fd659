package main

import "github.com/jjtimmons/asmgraph/cmd"

func main() {
	cmd.Execute() // initialize cobra commands
}
