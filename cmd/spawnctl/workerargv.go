package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/victoralfred/gospawn/command"
	"github.com/victoralfred/gospawn/config"
)

// NewWorkerArgvCommand creates the worker-argv command definition.
func NewWorkerArgvCommand() *cli.Command {
	return &cli.Command{
		Name:      "worker-argv",
		Usage:     "Print the invocation used to launch a worker sub-command",
		UsageText: "spawnctl worker-argv [options] <sub-command>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Agent configuration file",
			},
			&cli.BoolFlag{
				Name:  "daemon",
				Usage: "Use the daemon parameter set (foreground, queues)",
			},
		},
		Action: workerArgvCommand,
	}
}

func workerArgvCommand(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("exactly one sub-command is required")
	}
	sub := cmd.Args().First()

	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var invocation *command.Command
	if cmd.Bool("daemon") {
		invocation = cfg.DaemonParams().ArgvForCommand(sub)
	} else {
		invocation = cfg.WorkerParams().ArgvForCommand(sub)
	}
	fmt.Fprintln(cmd.Root().Writer, invocation.Serialize())
	return nil
}
