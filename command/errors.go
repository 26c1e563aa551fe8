package command

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions.
var (
	// ErrNonZeroExit indicates an invoked process returned a failure
	// exit status. This is the only expected failure category; it is
	// always propagated, never absorbed.
	ErrNonZeroExit = errors.New("command exited with non-zero status")

	// ErrUnsupportedOperand indicates concatenation with a value that is
	// not a token source.
	ErrUnsupportedOperand = errors.New("unsupported operand for concatenation")

	// ErrInvalidSequenceElement indicates a sequence element that is not
	// a command, sequence or token list.
	ErrInvalidSequenceElement = errors.New("invalid sequence element")
)

// ExitError is the structured failure for a non-zero exit. It carries the
// command that failed, the exit code, captured output and whether
// credentials were redacted before the failure was surfaced.
type ExitError struct {
	// Argv is the argument vector that failed. After normalization with
	// password censoring, URL-embedded passwords are stripped.
	Argv []string

	// ExitCode is the process exit status.
	ExitCode int

	// Output is the captured output as decoded text.
	Output string

	// Redacted reports whether credential material was removed from Argv.
	Redacted bool
}

// NewExitError creates an ExitError from a raw invocation failure.
func NewExitError(argv []string, exitCode int, output []byte) *ExitError {
	return &ExitError{
		Argv:     append([]string(nil), argv...),
		ExitCode: exitCode,
		Output:   decode(output),
	}
}

// Error returns the failure message with the (possibly redacted) command
// line and exit status.
func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", strings.Join(e.Argv, " "), e.ExitCode)
}

// Unwrap returns ErrNonZeroExit so callers can match with errors.Is.
func (e *ExitError) Unwrap() error {
	return ErrNonZeroExit
}

// NormalizeFailure normalizes an invocation failure before it propagates:
// captured output attached to an ExitError is guaranteed to be decoded
// text, and when censorPassword is set, URL-embedded passwords in the
// failed command are stripped. The failure itself is always returned,
// never swallowed; nil stays nil.
func NormalizeFailure(err error, censorPassword bool) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return err
	}
	exitErr.Output = strings.ToValidUTF8(exitErr.Output, "�")
	if censorPassword {
		argv, changed := CensorURLPasswords(exitErr.Argv)
		exitErr.Argv = argv
		exitErr.Redacted = changed
	}
	return err
}
