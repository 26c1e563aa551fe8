// Package gospawn provides the process-invocation layer for agents that
// launch worker and daemon subprocesses.
//
// The library represents one or more shell commands as structured,
// composable values, serializes them correctly for both POSIX and Windows
// shells, executes them through injected invoker strategies with
// consistent failure normalization and credential redaction, and tears
// down whole subprocess trees.
//
// # Quick Start
//
//	svc := gospawn.NewService()
//
//	out, err := svc.GetOutput(ctx, gospawn.NewCommand("git", "status"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out)
//
// # Command Sequences
//
// Sequences chain commands with the shell's logical AND, so each step
// only runs when the previous one succeeded:
//
//	seq, _ := gospawn.NewSequence(
//	    []string{"git", "fetch", "origin"},
//	    []string{"git", "checkout", "main"},
//	)
//	err := svc.CheckCall(ctx, seq)
//
// # Credential Redaction
//
// Failures can carry command lines containing URL-embedded credentials.
// Request redaction and the propagated failure is scrubbed first:
//
//	err := svc.CheckCall(ctx, cmd, gospawn.WithCensorPassword())
package gospawn

import (
	"context"
	"strings"

	"github.com/victoralfred/gospawn/command"
	"github.com/victoralfred/gospawn/internal/spawn"
	"github.com/victoralfred/gospawn/invoke"
	"github.com/victoralfred/gospawn/proctree"
	"github.com/victoralfred/gospawn/shell"
	"github.com/victoralfred/gospawn/worker"
)

// =============================================================================
// Core Types
// =============================================================================

// Command is an ordered list of tokens describing one process invocation.
type Command = command.Command

// Sequence is an ordered list of Commands chained with logical AND.
type Sequence = command.Sequence

// Executable is anything runnable through an injected invoker.
type Executable = command.Executable

// Invoker is a caller-supplied spawn strategy.
type Invoker = command.Invoker

// Result is the outcome of one subprocess invocation.
type Result = command.Result

// ExitError is the structured failure for a non-zero exit.
type ExitError = command.ExitError

// CallOption configures a CallSubprocess invocation.
type CallOption = command.CallOption

// Service builds the standard invoker strategies.
type Service = invoke.Service

// Params holds worker subprocess parameters.
type Params = worker.Params

// DaemonParams holds daemon subprocess parameters.
type DaemonParams = worker.DaemonParams

// =============================================================================
// Errors
// =============================================================================

// Common errors returned by the library.
var (
	// ErrNonZeroExit indicates an invoked process failed.
	ErrNonZeroExit = command.ErrNonZeroExit

	// ErrUnsupportedOperand indicates concatenation with a non token source.
	ErrUnsupportedOperand = command.ErrUnsupportedOperand

	// ErrInvalidSequenceElement indicates an unusable sequence element.
	ErrInvalidSequenceElement = command.ErrInvalidSequenceElement
)

// =============================================================================
// Construction
// =============================================================================

// NewCommand creates a Command from tokens.
func NewCommand(tokens ...string) *Command {
	return command.New(tokens...)
}

// NewSequence creates a Sequence from commands, sequences or token lists.
func NewSequence(elements ...any) (*Sequence, error) {
	return command.NewSequence(elements...)
}

// NewService creates an invocation service.
func NewService(opts ...invoke.Option) *Service {
	return invoke.New(opts...)
}

// Quote returns a shell-escaped version of the token.
func Quote(token string) string {
	return shell.Quote(token)
}

// ConditionalFlag returns the flags when the condition holds, else nothing.
func ConditionalFlag(condition bool, flag string, flags ...string) []string {
	return command.ConditionalFlag(condition, flag, flags...)
}

// WithCensorPassword strips URL-embedded passwords from propagated
// failures.
func WithCensorPassword() CallOption {
	return command.WithCensorPassword()
}

// =============================================================================
// Process-tree teardown
// =============================================================================

// KillAllChildProcesses kills all descendants of the target process; see
// proctree.KillAllChildProcesses.
func KillAllChildProcesses(pid int32) error {
	return proctree.KillAllChildProcesses(pid)
}

// =============================================================================
// Convenience Functions
// =============================================================================

var defaultService = invoke.New()

// GetOutput runs the executable through the default service, capturing
// output.
func GetOutput(ctx context.Context, exe Executable, opts ...CallOption) (string, error) {
	return defaultService.GetOutput(ctx, exe, opts...)
}

// CheckCall runs the executable through the default service, failing on a
// non-zero exit.
func CheckCall(ctx context.Context, exe Executable, opts ...CallOption) error {
	return defaultService.CheckCall(ctx, exe, opts...)
}

// BashOutput runs a command line through the host shell and returns its
// trimmed output, with stderr interleaved into it. Failures are absorbed:
// ok is false and the output empty when the command could not run or
// exited non-zero.
func BashOutput(ctx context.Context, commandLine string) (string, bool) {
	argv := shell.Default().CommandLine(commandLine)
	res, err := defaultService.CaptureCombined().Invoke(ctx, argv)
	if err != nil || res == nil || !res.Success() {
		return "", false
	}
	return res.OutputString(), true
}

// CommandExists reports whether an executable with the given name can be
// found in the search path.
func CommandExists(name string) bool {
	_, err := spawn.LookPath(name)
	return err == nil
}

// ShutdownDocker finds a running container whose command ends with the
// given suffix and stops it with a short grace period. Best-effort: any
// failure leaves the container untouched.
func ShutdownDocker(ctx context.Context, commandEnding string) {
	out, ok := BashOutput(ctx, `docker ps --no-trunc --format "{{.ID}}: {{.Command}}"`)
	if !ok {
		return
	}
	for _, line := range strings.Split(out, "\n") {
		id, cmd, found := strings.Cut(line, ":")
		if !found || !strings.HasSuffix(strings.TrimSpace(cmd), commandEnding) {
			continue
		}
		BashOutput(ctx, "docker stop -t 1 "+strings.TrimSpace(id))
		return
	}
}
