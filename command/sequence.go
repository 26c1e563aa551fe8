package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/victoralfred/gospawn/shell"
)

// Sequence is an ordered list of Commands chained with the shell's
// logical-AND operator: each step only runs if the previous one succeeded.
// This is the only control-flow primitive exposed; there is no OR, pipe or
// subshell grouping.
//
// The sequence owns deep copies of its commands. Nested sequences never
// persist: a Sequence passed to NewSequence is spliced in at construction
// time, so mutating the input afterwards cannot alter the new sequence.
type Sequence struct {
	commands []*Command
	profile  *shell.Profile
	log      zerolog.Logger
}

// NewSequence creates a Sequence from the given elements. Each element may
// be a *Command (deep copied), a *Sequence (flattened via deep copies of
// its commands) or a []string token list (wrapped into a Command). Any
// other element returns ErrInvalidSequenceElement.
func NewSequence(elements ...any) (*Sequence, error) {
	return NewSequenceWithProfile(shell.Default(), elements...)
}

// NewSequenceWithProfile is NewSequence with an explicit platform profile,
// used when serialization must target a specific shell family.
func NewSequenceWithProfile(profile *shell.Profile, elements ...any) (*Sequence, error) {
	s := &Sequence{profile: profile, log: zerolog.Nop()}
	for _, e := range elements {
		switch v := e.(type) {
		case *Sequence:
			for _, c := range v.commands {
				s.commands = append(s.commands, c.clone())
			}
		case *Command:
			s.commands = append(s.commands, v.clone())
		case []string:
			s.commands = append(s.commands, New(v...))
		default:
			return nil, fmt.Errorf("%w: %T", ErrInvalidSequenceElement, e)
		}
	}
	return s, nil
}

// MustSequence is NewSequence, panicking on invalid elements. Use only
// with elements known to be valid.
func MustSequence(elements ...any) *Sequence {
	s, err := NewSequence(elements...)
	if err != nil {
		panic(err)
	}
	return s
}

// WithLogger returns a copy of the sequence that logs invocations to the
// given logger.
func (s *Sequence) WithLogger(log zerolog.Logger) *Sequence {
	clone := s.clone()
	clone.log = log
	return clone
}

// Len returns the number of commands in the sequence.
func (s *Sequence) Len() int {
	return len(s.commands)
}

// At returns the command at index i.
func (s *Sequence) At(i int) *Command {
	return s.commands[i]
}

// SetAt replaces the command at index i in place.
func (s *Sequence) SetAt(i int, cmd *Command) {
	s.commands[i] = cmd
}

// Commands returns the contained commands. The slice is a copy; the
// commands themselves are shared.
func (s *Sequence) Commands() []*Command {
	out := make([]*Command, len(s.commands))
	copy(out, s.commands)
	return out
}

// Serialize returns the joined shell command line: each command serialized
// and interspersed with the AND separator, no leading or trailing
// separator. On the POSIX path every command is quote-serialized; on the
// Windows path the raw token join is used instead.
func (s *Sequence) Serialize() string {
	parts := make([]string, len(s.commands))
	for i, c := range s.commands {
		if s.profile.Windows {
			parts[i] = c.joinRaw()
		} else {
			parts[i] = c.Serialize()
		}
	}
	return strings.Join(parts, " "+s.profile.Separator+" ")
}

// Argv returns the argument vectors of the sequence. If shellMode is true
// the result is a single argv that invokes the host shell with the fully
// serialized command line as its final argument. Otherwise it is one argv
// per contained command.
func (s *Sequence) Argv(shellMode bool) [][]string {
	if shellMode {
		return [][]string{s.profile.CommandLine(s.Serialize())}
	}
	out := make([][]string, len(s.commands))
	for i, c := range s.commands {
		out[i] = c.Argv()
	}
	return out
}

// Concat combines the sequence with more elements, producing a new
// Sequence. Accepted operands are []string, *Command, Command, *Sequence
// and []any of those; anything else returns ErrUnsupportedOperand.
func (s *Sequence) Concat(other any) (*Sequence, error) {
	elements := []any{s}
	switch v := other.(type) {
	case []any:
		elements = append(elements, v...)
	case *Sequence, *Command, []string:
		elements = append(elements, v)
	case Command:
		elements = append(elements, &v)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedOperand, other)
	}
	next, err := NewSequenceWithProfile(s.profile, elements...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedOperand, err)
	}
	next.log = s.log
	return next, nil
}

// Pretty returns a human-readable rendering for logs, platform-adjusted.
func (s *Sequence) Pretty() string {
	return s.Serialize()
}

// String implements fmt.Stringer.
func (s *Sequence) String() string {
	parts := make([]string, len(s.commands))
	for i, c := range s.commands {
		parts[i] = c.String()
	}
	return fmt.Sprintf("Sequence(%s)", strings.Join(parts, ", "))
}

// CallSubprocess runs the whole sequence through the injected invoker as a
// single shell invocation: the serialized AND-joined line is handed to the
// platform shell, so step N+1 only runs when step N exits zero. The shell
// profile can be overridden with WithShellProfile. Failures are normalized
// before they are returned; see NormalizeFailure.
func (s *Sequence) CallSubprocess(ctx context.Context, inv Invoker, opts ...CallOption) (*Result, error) {
	o := applyCallOptions(opts)
	profile := s.profile
	if o.profile != nil {
		profile = o.profile
	}
	line := s.Serialize()
	s.log.Debug().Str("command_line", line).Msg("running sequence")
	res, err := inv.Invoke(ctx, profile.CommandLine(line))
	return res, NormalizeFailure(err, o.censorPassword)
}

func (s *Sequence) clone() *Sequence {
	commands := make([]*Command, len(s.commands))
	for i, c := range s.commands {
		commands[i] = c.clone()
	}
	return &Sequence{commands: commands, profile: s.profile, log: s.log}
}
