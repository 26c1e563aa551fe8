// Package command provides the command-sequence abstraction used to invoke
// worker and daemon subprocesses.
//
// A Command is an immutable ordered list of tokens describing one process
// invocation. A Sequence chains Commands with the shell's logical-AND
// operator so that each step only runs if the previous one succeeded.
// Both satisfy Executable, which delegates the actual OS spawn to an
// injected Invoker strategy and normalizes failures on the way out.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/victoralfred/gospawn/shell"
)

// Command is an ordered list of tokens representing one process invocation.
// Commands are immutable; composition methods return new values.
type Command struct {
	argv []string
	log  zerolog.Logger
}

// New creates a Command from the given tokens.
func New(tokens ...string) *Command {
	argv := make([]string, len(tokens))
	copy(argv, tokens)
	return &Command{argv: argv, log: zerolog.Nop()}
}

// WithLogger returns a copy of the command that logs invocations to the
// given logger.
func (c *Command) WithLogger(log zerolog.Logger) *Command {
	return &Command{argv: c.Argv(), log: log}
}

// Serialize returns the shell-safe command line: each token quoted and
// joined with single spaces. Tokenizing the result with a POSIX shell
// yields exactly the original token sequence.
func (c *Command) Serialize() string {
	return shell.QuoteJoin(c.argv)
}

// Argv returns a copy of the raw, unquoted token sequence, suitable for an
// OS process-creation call that bypasses shell parsing.
func (c *Command) Argv() []string {
	argv := make([]string, len(c.argv))
	copy(argv, c.argv)
	return argv
}

// Len returns the number of tokens.
func (c *Command) Len() int {
	return len(c.argv)
}

// At returns the token at index i.
func (c *Command) At(i int) string {
	return c.argv[i]
}

// Pretty returns a human-readable rendering for logs.
func (c *Command) Pretty() string {
	return c.Serialize()
}

// String implements fmt.Stringer.
func (c *Command) String() string {
	return fmt.Sprintf("Executing: %v", c.argv)
}

// WithAppended returns a new Command with the tokens appended.
func (c *Command) WithAppended(tokens ...string) *Command {
	argv := make([]string, 0, len(c.argv)+len(tokens))
	argv = append(argv, c.argv...)
	argv = append(argv, tokens...)
	return &Command{argv: argv, log: c.log}
}

// WithPrepended returns a new Command with the tokens prepended.
func (c *Command) WithPrepended(tokens ...string) *Command {
	argv := make([]string, 0, len(tokens)+len(c.argv))
	argv = append(argv, tokens...)
	argv = append(argv, c.argv...)
	return &Command{argv: argv, log: c.log}
}

// Concat combines the command with another token source, producing a new
// Command with the combined token sequence. Accepted operands are
// []string, *Command and Command. Anything else returns
// ErrUnsupportedOperand so callers can dispatch to their own fallback.
func (c *Command) Concat(other any) (*Command, error) {
	tokens, err := operandTokens(other)
	if err != nil {
		return nil, err
	}
	return c.WithAppendedTokens(tokens), nil
}

// WithAppendedTokens is WithAppended over a slice.
func (c *Command) WithAppendedTokens(tokens []string) *Command {
	return c.WithAppended(tokens...)
}

func operandTokens(other any) ([]string, error) {
	switch v := other.(type) {
	case []string:
		return v, nil
	case *Command:
		return v.Argv(), nil
	case Command:
		return v.Argv(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedOperand, other)
	}
}

// ConditionalFlag translates a boolean into flag tokens: the flags are
// returned when the condition holds, otherwise an empty slice. Used to
// splice optional flags into a command's token list.
func ConditionalFlag(condition bool, flag string, flags ...string) []string {
	if !condition {
		return nil
	}
	tokens := make([]string, 0, 1+len(flags))
	tokens = append(tokens, flag)
	return append(tokens, flags...)
}

// CallSubprocess runs the command through the injected invoker on its raw
// argument vector, bypassing shell parsing. On failure the error is
// normalized before it is returned; see NormalizeFailure.
func (c *Command) CallSubprocess(ctx context.Context, inv Invoker, opts ...CallOption) (*Result, error) {
	o := applyCallOptions(opts)
	c.log.Debug().Strs("argv", c.argv).Msg("running command")
	res, err := inv.Invoke(ctx, c.Argv())
	return res, NormalizeFailure(err, o.censorPassword)
}

// clone returns a deep copy of the command.
func (c *Command) clone() *Command {
	return &Command{argv: c.Argv(), log: c.log}
}

// joinRaw joins the raw tokens with spaces, without quoting. Used on the
// Windows serialization path.
func (c *Command) joinRaw() string {
	return strings.Join(c.argv, " ")
}
