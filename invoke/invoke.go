// Package invoke provides the standard invoker strategies that connect the
// command layer to the operating system: capture output, run and check the
// exit status, or run and report the exit code. A single Service carries
// the shared runner, default timeout, rate limiting, logging and telemetry.
package invoke

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/victoralfred/gospawn/command"
	"github.com/victoralfred/gospawn/internal/spawn"
	"github.com/victoralfred/gospawn/observability"
	"github.com/victoralfred/gospawn/resilience"
)

// ErrEmptyArgv indicates an invocation with no tokens at all: there is no
// program to spawn.
var ErrEmptyArgv = errors.New("empty argument vector")

// Service builds invokers sharing one runner and one set of defaults.
// The zero value is not usable; create with New.
type Service struct {
	runner         *spawn.Runner
	limiter        resilience.SpawnLimiter
	telemetry      observability.Telemetry
	log            zerolog.Logger
	defaultTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultTimeout sets the timeout applied when the caller's context
// has no deadline.
func WithDefaultTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.defaultTimeout = d
	}
}

// WithSpawnLimiter bounds the subprocess spawn rate.
func WithSpawnLimiter(l resilience.SpawnLimiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

// WithTelemetry sets the telemetry sink.
func WithTelemetry(t observability.Telemetry) Option {
	return func(s *Service) {
		s.telemetry = t
	}
}

// WithLogger sets the logger for invocation debug lines.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// New creates a Service. Without options it uses a 30 second default
// timeout, no rate limiting, no telemetry and no logging.
func New(opts ...Option) *Service {
	s := &Service{
		runner:         spawn.NewRunner(),
		telemetry:      observability.Noop(),
		log:            zerolog.Nop(),
		defaultTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mode selects the invoker semantics.
type mode int

const (
	modeCapture  mode = iota // capture output, non-zero exit is a failure
	modeCombined             // capture with stderr merged into stdout
	modeCheck                // inherit stdio, non-zero exit is a failure
	modePlain                // inherit stdio, non-zero exit is reported, not failed
)

func (m mode) String() string {
	switch m {
	case modeCapture:
		return "capture"
	case modeCombined:
		return "capture_combined"
	case modeCheck:
		return "check"
	case modePlain:
		return "call"
	default:
		return "unknown"
	}
}

// Capture returns the invoker that runs a process and captures its output,
// reporting a non-zero exit as an *command.ExitError carrying the decoded
// output.
func (s *Service) Capture() command.Invoker {
	return s.invoker(modeCapture)
}

// CaptureCombined returns the invoker that runs a process and captures its
// output with stderr interleaved into stdout, the way a shell redirection
// 2>&1 would.
func (s *Service) CaptureCombined() command.Invoker {
	return s.invoker(modeCombined)
}

// Check returns the invoker that runs a process with inherited stdio and
// reports a non-zero exit as an *command.ExitError.
func (s *Service) Check() command.Invoker {
	return s.invoker(modeCheck)
}

// Plain returns the invoker that runs a process with inherited stdio and
// reports the exit code through the Result only; a non-zero exit is not an
// error.
func (s *Service) Plain() command.Invoker {
	return s.invoker(modePlain)
}

func (s *Service) invoker(m mode) command.Invoker {
	return command.InvokerFunc(func(ctx context.Context, argv []string) (*command.Result, error) {
		return s.invoke(ctx, argv, m)
	})
}

func (s *Service) invoke(ctx context.Context, argv []string, m mode) (*command.Result, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyArgv
	}
	binary := argv[0]

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, binary); err != nil {
			return nil, err
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.defaultTimeout)
		defer cancel()
	}

	ctx, endSpan := s.telemetry.StartSpan(ctx, "invoke."+m.String(),
		attribute.String("binary", binary),
	)
	defer endSpan()

	invocationID := uuid.New().String()
	s.log.Debug().
		Str("invocation_id", invocationID).
		Str("mode", m.String()).
		Strs("argv", argv).
		Msg("spawning")

	config := &spawn.RunConfig{Argv: argv}
	if m == modeCapture || m == modeCombined {
		config.Capture = true
		config.MergeStderr = m == modeCombined
	} else {
		config.Stdout = os.Stdout
		config.Stderr = os.Stderr
	}

	runResult, err := s.runner.Run(ctx, config)
	if err != nil {
		return nil, err
	}

	result := &command.Result{
		InvocationID: invocationID,
		Argv:         argv,
		ExitCode:     runResult.ExitCode,
		Stdout:       runResult.Stdout,
		Stderr:       runResult.Stderr,
		Duration:     runResult.Duration,
	}

	s.telemetry.RecordInvocation(ctx, binary, m.String(), result.ExitCode, result.Duration.Seconds())

	if result.ExitCode != 0 && m != modePlain {
		return result, command.NewExitError(argv, result.ExitCode, runResult.Stdout)
	}
	return result, nil
}

// GetOutput executes the Executable with capture semantics and returns its
// stdout decoded as UTF-8 with trailing whitespace stripped.
func (s *Service) GetOutput(ctx context.Context, exe command.Executable, opts ...command.CallOption) (string, error) {
	res, err := exe.CallSubprocess(ctx, s.Capture(), opts...)
	if err != nil {
		return "", err
	}
	return res.OutputString(), nil
}

// CheckCall executes the Executable and fails on a non-zero exit.
func (s *Service) CheckCall(ctx context.Context, exe command.Executable, opts ...command.CallOption) error {
	_, err := exe.CallSubprocess(ctx, s.Check(), opts...)
	return err
}

// Call executes the Executable and returns its exit code; a non-zero exit
// is not an error.
func (s *Service) Call(ctx context.Context, exe command.Executable, opts ...command.CallOption) (int, error) {
	res, err := exe.CallSubprocess(ctx, s.Plain(), opts...)
	if err != nil {
		return -1, err
	}
	return res.ExitCode, nil
}
