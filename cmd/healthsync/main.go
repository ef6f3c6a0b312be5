// Command healthsync is the CLI for the health-metrics cache and
// synchronization engine.
package main

import (
	"os"

	"github.com/rshade/healthsync/internal/cli"
	"github.com/rshade/healthsync/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps errors to process exit codes.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		// Cobra already printed the error.
		return 1
	}
	return 0
}
