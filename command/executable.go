package command

import (
	"context"
	"strings"
	"time"

	"github.com/victoralfred/gospawn/shell"
)

// Invoker is a caller-supplied strategy that performs the actual OS-level
// spawn. The same Command or Sequence can be executed in different modes
// (capture output, wait for exit, check the exit code) by injecting a
// different invoker; serialization logic never changes.
type Invoker interface {
	// Invoke spawns a process from the final argument vector and blocks
	// until the invoker's semantics are satisfied. Non-zero exits are
	// reported as an *ExitError when the invoker has check semantics.
	Invoke(ctx context.Context, argv []string) (*Result, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, argv []string) (*Result, error)

// Invoke implements Invoker.
func (f InvokerFunc) Invoke(ctx context.Context, argv []string) (*Result, error) {
	return f(ctx, argv)
}

// Executable is anything that can be executed through an injected invoker.
// Command invokes on its raw argv; Sequence invokes on the serialized
// AND-joined line through the platform shell.
type Executable interface {
	CallSubprocess(ctx context.Context, inv Invoker, opts ...CallOption) (*Result, error)

	// Pretty returns a human-readable rendering for logs.
	Pretty() string
}

// Result is the outcome of one subprocess invocation.
type Result struct {
	// InvocationID uniquely identifies the invocation for tracing.
	InvocationID string

	// Argv is the final argument vector that was spawned.
	Argv []string

	// ExitCode is the process exit code.
	ExitCode int

	// Stdout contains captured standard output, if the invoker captures.
	Stdout []byte

	// Stderr contains captured standard error, if the invoker captures.
	Stderr []byte

	// Duration is the wall clock time of the invocation.
	Duration time.Duration
}

// Success returns true if the process exited zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// OutputString returns captured stdout decoded as UTF-8 with trailing
// whitespace stripped.
func (r *Result) OutputString() string {
	return strings.TrimRight(decode(r.Stdout), " \t\r\n")
}

// StderrString returns captured stderr decoded as UTF-8.
func (r *Result) StderrString() string {
	return decode(r.Stderr)
}

// CallOption configures a CallSubprocess invocation.
type CallOption func(*callOptions)

type callOptions struct {
	censorPassword bool
	profile        *shell.Profile
}

// WithCensorPassword strips URL-embedded passwords from the command
// attached to a propagated failure before the failure is observable by the
// caller.
func WithCensorPassword() CallOption {
	return func(o *callOptions) {
		o.censorPassword = true
	}
}

// WithShellProfile overrides the shell profile used for sequence
// invocation.
func WithShellProfile(p *shell.Profile) CallOption {
	return func(o *callOptions) {
		o.profile = p
	}
}

func applyCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
