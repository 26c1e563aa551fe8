// Package spawn provides the internal process-creation wrapper.
// This is the ONLY package in the module that imports os/exec.
// All subprocess invocation MUST go through this package.
package spawn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Runner spawns processes using os/exec.CommandContext.
// This is the sole contact point with the operating system's
// process-creation facility.
type Runner struct {
	// baseEnv is the environment inherited by spawned processes when the
	// config does not override it.
	baseEnv []string
}

// NewRunner creates a new process runner inheriting the agent's
// environment.
func NewRunner() *Runner {
	return &Runner{baseEnv: os.Environ()}
}

// RunConfig describes one process invocation.
type RunConfig struct {
	// Argv is the full argument vector, argv[0] being the program.
	Argv []string

	// Env replaces the inherited environment when non-nil.
	Env []string

	// WorkingDir is the working directory for the process.
	WorkingDir string

	// Stdin provides input to the process.
	Stdin io.Reader

	// Stdout and Stderr receive output when Capture is false. When nil,
	// output is discarded.
	Stdout io.Writer
	Stderr io.Writer

	// Capture buffers stdout and stderr into the result instead of
	// streaming them.
	Capture bool

	// MergeStderr interleaves stderr into the captured stdout, the way a
	// shell redirection 2>&1 would. Only meaningful with Capture.
	MergeStderr bool
}

// RunResult is the raw outcome of a spawned process.
type RunResult struct {
	// Pid is the OS process id, for later process-tree teardown.
	Pid int

	// ExitCode is the process exit status.
	ExitCode int

	// Stdout and Stderr hold captured output when Capture was set.
	Stdout []byte
	Stderr []byte

	// Duration is the wall clock time of the run.
	Duration time.Duration
}

// Run spawns the configured process and waits for it to exit.
// The context MUST carry a deadline; callers apply a default timeout.
//
// A non-zero exit is not an error here: it is reported through
// RunResult.ExitCode and classified by the caller. The returned error is
// reserved for spawn failures and context cancellation.
func (r *Runner) Run(ctx context.Context, config *RunConfig) (*RunResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, fmt.Errorf("context must have a deadline for timeout enforcement")
	}
	if len(config.Argv) == 0 {
		return nil, fmt.Errorf("empty argument vector")
	}

	// Argv is assembled by the command layer, never interpolated into a
	// shell string here; shell-mode invocations arrive as an explicit
	// shell argv.
	// #nosec G204 -- argument vectors are built by the command layer
	cmd := exec.CommandContext(ctx, config.Argv[0], config.Argv[1:]...)

	if config.Env != nil {
		cmd.Env = config.Env
	} else {
		cmd.Env = r.baseEnv
	}
	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}
	if config.Stdin != nil {
		cmd.Stdin = config.Stdin
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if config.Capture {
		cmd.Stdout = &stdoutBuf
		if config.MergeStderr {
			cmd.Stderr = &stdoutBuf
		} else {
			cmd.Stderr = &stderrBuf
		}
	} else {
		cmd.Stdout = config.Stdout
		cmd.Stderr = config.Stderr
	}

	// New process group so the whole tree can be torn down later.
	cmd.SysProcAttr = defaultSysProcAttr()

	start := time.Now()
	runErr := cmd.Run()
	result := &RunResult{Duration: time.Since(start)}

	if config.Capture {
		result.Stdout = stdoutBuf.Bytes()
		result.Stderr = stderrBuf.Bytes()
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
		result.Pid = cmd.ProcessState.Pid()
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			// Exit status is in the result; not a spawn failure.
			return result, nil
		}
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, runErr
	}
	return result, nil
}

// LookPath resolves an executable name against the search path.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// BuildEnv creates an environment slice from a map.
func BuildEnv(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}
