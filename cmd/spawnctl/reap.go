package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/victoralfred/gospawn/proctree"
)

// NewReapCommand creates the reap command definition.
func NewReapCommand() *cli.Command {
	return &cli.Command{
		Name:      "reap",
		Usage:     "Kill a process tree: all descendants, then the process itself",
		UsageText: "spawnctl reap <pid>",
		Action:    reapCommand,
	}
}

func reapCommand(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("exactly one pid is required")
	}
	pid, err := strconv.ParseInt(cmd.Args().First(), 10, 32)
	if err != nil || pid <= 0 {
		return fmt.Errorf("invalid pid %q", cmd.Args().First())
	}
	return proctree.KillAllChildProcesses(int32(pid))
}
