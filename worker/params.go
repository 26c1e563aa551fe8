// Package worker translates worker and daemon parameters into the
// argument vectors used to launch agent subprocesses.
package worker

import (
	"os"
	"strconv"
	"strings"

	"github.com/victoralfred/gospawn/command"
)

// ProgramName is the agent program launched as a subprocess when the
// current executable cannot be resolved.
const ProgramName = "gospawn-agent"

// DefaultConfigFile is the agent configuration consulted when no explicit
// path is given.
const DefaultConfigFile = "/etc/gospawn/agent.yaml"

// Exit statuses reported by worker subprocesses.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInterrupted = 2
)

// ProgramInvocation returns the launcher prefix for worker subprocesses:
// the running executable, falling back to ProgramName on lookup failure.
func ProgramInvocation() []string {
	exe, err := os.Executable()
	if err != nil {
		return []string{ProgramName}
	}
	return []string{exe}
}

// Params holds the parameter set for a worker subprocess. The derived
// flags are recomputed on each call, never stored.
type Params struct {
	// LogLevel is the worker log level.
	LogLevel string

	// ConfigFile is the agent configuration path, always passed.
	ConfigFile string

	// Optimization is the optimization level, one flag letter per level.
	Optimization int

	// Debug enables the global debug flag.
	Debug bool

	// Trace enables trace-level diagnostics in the worker.
	Trace bool

	// Launcher overrides the program invocation prefix when non-nil.
	Launcher []string
}

// NewParams returns worker parameters with the usual defaults.
func NewParams() Params {
	return Params{
		LogLevel:   "INFO",
		ConfigFile: DefaultConfigFile,
	}
}

// WorkerFlags serializes the parameters into two argument-vector
// fragments: global flags placed before the worker sub-command, and
// worker flags placed after it.
func (p Params) WorkerFlags() (global, worker []string) {
	global = []string{"--config-file", p.ConfigFile}
	global = append(global, command.ConditionalFlag(p.Debug, "--debug")...)
	if p.Optimization > 0 {
		worker = append(worker, p.OptimizationFlag())
	}
	return global, worker
}

// OptimizationFlag renders the optimization level as -O, -OO and so on.
func (p Params) OptimizationFlag() string {
	return "-" + strings.Repeat("O", p.Optimization)
}

// ArgvForCommand assembles the full invocation for a worker sub-command:
// launcher prefix, global flags, the sub-command name, then worker flags.
func (p Params) ArgvForCommand(sub string) *command.Command {
	return argvForCommand(p, p.launcher(), sub)
}

func (p Params) launcher() []string {
	if p.Launcher != nil {
		return p.Launcher
	}
	return ProgramInvocation()
}

// flagSource lets DaemonParams reuse the assembly with its own flags.
type flagSource interface {
	WorkerFlags() (global, worker []string)
}

func argvForCommand(src flagSource, launcher []string, sub string) *command.Command {
	global, worker := src.WorkerFlags()
	tokens := make([]string, 0, len(launcher)+len(global)+1+len(worker))
	tokens = append(tokens, launcher...)
	tokens = append(tokens, global...)
	tokens = append(tokens, sub)
	tokens = append(tokens, worker...)
	return command.New(tokens...)
}

// DaemonParams extends Params for daemon subprocesses that consume queues.
type DaemonParams struct {
	Params

	// Foreground keeps the daemon attached to the terminal.
	Foreground bool

	// Queues are the queue names the daemon serves.
	Queues []string
}

// NewDaemonParams returns daemon parameters with the usual defaults.
func NewDaemonParams() DaemonParams {
	return DaemonParams{Params: NewParams()}
}

// WorkerFlags adds the daemon flags after the worker flags: --foreground
// when set, and --queue followed by every configured queue name.
func (p DaemonParams) WorkerFlags() (global, worker []string) {
	global, worker = p.Params.WorkerFlags()
	worker = append(worker, command.ConditionalFlag(p.Foreground, "--foreground")...)
	if len(p.Queues) > 0 {
		worker = append(worker, "--queue")
		worker = append(worker, p.Queues...)
	}
	return global, worker
}

// ArgvForCommand assembles the full daemon invocation.
func (p DaemonParams) ArgvForCommand(sub string) *command.Command {
	return argvForCommand(p, p.launcher(), sub)
}

// FormatExitStatus renders an exit status for logs.
func FormatExitStatus(code int) string {
	switch code {
	case ExitSuccess:
		return "success"
	case ExitFailure:
		return "failure"
	case ExitInterrupted:
		return "interrupted"
	default:
		return "exit status " + strconv.Itoa(code)
	}
}
