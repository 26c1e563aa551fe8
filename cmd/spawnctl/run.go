package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/victoralfred/gospawn/command"
	"github.com/victoralfred/gospawn/invoke"
)

// NewRunCommand creates the run command definition.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a command, or several chained with &&",
		UsageText: "spawnctl run [options] -- <command> [args...] [&& <command> [args...]]...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "censor-password",
				Usage: "Strip URL-embedded passwords from reported failures",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall execution timeout",
				Value: 10 * time.Minute,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log invocations to stderr",
			},
		},
		Action: runCommand,
	}
}

func runCommand(ctx context.Context, cmd *cli.Command) error {
	steps, err := splitSteps(cmd.Args().Slice())
	if err != nil {
		return err
	}

	var opts []invoke.Option
	if cmd.Bool("verbose") {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
		opts = append(opts, invoke.WithLogger(log))
	}
	svc := invoke.New(opts...)

	var callOpts []command.CallOption
	if cmd.Bool("censor-password") {
		callOpts = append(callOpts, command.WithCensorPassword())
	}

	runCtx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	exe, err := executable(steps)
	if err != nil {
		return err
	}
	if err := svc.CheckCall(runCtx, exe, callOpts...); err != nil {
		var exitErr *command.ExitError
		if errors.As(err, &exitErr) {
			return cli.Exit(err.Error(), exitErr.ExitCode)
		}
		return err
	}
	return nil
}

// splitSteps splits the trailing arguments on literal "&&" tokens into
// per-command token lists.
func splitSteps(args []string) ([][]string, error) {
	var steps [][]string
	current := []string{}
	for _, arg := range args {
		if arg == "&&" {
			if len(current) == 0 {
				return nil, fmt.Errorf("empty command before '&&'")
			}
			steps = append(steps, current)
			current = []string{}
			continue
		}
		current = append(current, arg)
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("no command given")
	}
	return append(steps, current), nil
}

func executable(steps [][]string) (command.Executable, error) {
	if len(steps) == 1 {
		return command.New(steps[0]...), nil
	}
	elements := make([]any, len(steps))
	for i, s := range steps {
		elements[i] = s
	}
	return command.NewSequence(elements...)
}
