// Command retrieved is a thin CLI demonstration wrapper around the core
// retrieval engine. The command-line argument parser, terminal output
// formatting, and everything below this package are out of the core's
// scope (§1); this binary exists only to exercise search/context/explain
// from a shell.
package main

import (
	"os"

	"github.com/retrieved/thicket/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
