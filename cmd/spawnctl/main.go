// Command spawnctl is a small operator tool over the gospawn library:
// run AND-chained command sequences, print worker invocations, and tear
// down subprocess trees.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "1.0.0"

func main() {
	app := &cli.Command{
		Name:    "spawnctl",
		Usage:   "Subprocess invocation and teardown for fleet agents",
		Version: version,
		Commands: []*cli.Command{
			NewRunCommand(),
			NewReapCommand(),
			NewWorkerArgvCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
