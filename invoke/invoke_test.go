package invoke

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/victoralfred/gospawn/command"
	"github.com/victoralfred/gospawn/resilience"
	"github.com/victoralfred/gospawn/shell"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestGetOutput(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	out, err := svc.GetOutput(context.Background(), command.New("echo", "hello world"))
	if err != nil {
		t.Fatalf("GetOutput error: %v", err)
	}
	if out != "hello world" {
		t.Errorf("GetOutput = %q", out)
	}
}

func TestGetOutputStripsTrailingNewline(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	out, err := svc.GetOutput(context.Background(), command.New("printf", "value\n"))
	if err != nil {
		t.Fatalf("GetOutput error: %v", err)
	}
	if out != "value" {
		t.Errorf("GetOutput = %q", out)
	}
}

func TestCheckCallReportsExitCode(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	err := svc.CheckCall(context.Background(), command.New("sh", "-c", "exit 3"))
	if !errors.Is(err, command.ErrNonZeroExit) {
		t.Fatalf("expected ErrNonZeroExit, got %v", err)
	}
	var exitErr *command.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T", err)
	}
	if exitErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", exitErr.ExitCode)
	}
}

func TestCallDoesNotFailOnNonZeroExit(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	code, err := svc.Call(context.Background(), command.New("sh", "-c", "exit 5"))
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if code != 5 {
		t.Errorf("Call exit code = %d, want 5", code)
	}
}

func TestCaptureFailureCarriesOutput(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	_, err := svc.GetOutput(context.Background(), command.New("sh", "-c", "echo diagnostics; exit 1"))
	var exitErr *command.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.Output != "diagnostics\n" {
		t.Errorf("Output = %q", exitErr.Output)
	}
}

func TestSequenceRunsThroughShell(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	seq, err := command.NewSequenceWithProfile(shell.Posix(),
		command.New("echo", "first"),
		command.New("echo", "second"),
	)
	if err != nil {
		t.Fatalf("NewSequenceWithProfile error: %v", err)
	}
	out, err := svc.GetOutput(context.Background(), seq)
	if err != nil {
		t.Fatalf("GetOutput error: %v", err)
	}
	if out != "first\nsecond" {
		t.Errorf("GetOutput = %q", out)
	}
}

func TestSequenceStopsOnFailure(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	seq, err := command.NewSequenceWithProfile(shell.Posix(),
		command.New("sh", "-c", "echo before; exit 7"),
		command.New("echo", "after"),
	)
	if err != nil {
		t.Fatalf("NewSequenceWithProfile error: %v", err)
	}
	_, err = svc.GetOutput(context.Background(), seq)
	var exitErr *command.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %v", err)
	}
	if exitErr.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", exitErr.ExitCode)
	}
	if exitErr.Output != "before\n" {
		t.Errorf("Output = %q, the second step should not have run", exitErr.Output)
	}
}

func TestDefaultTimeout(t *testing.T) {
	skipOnWindows(t)
	svc := New(WithDefaultTimeout(100 * time.Millisecond))

	start := time.Now()
	err := svc.CheckCall(context.Background(), command.New("sleep", "10"))
	if err == nil {
		t.Fatal("expected an error from the timed-out invocation")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("invocation ran for %v, timeout not enforced", elapsed)
	}
}

func TestCanceledContext(t *testing.T) {
	svc := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.CheckCall(ctx, command.New("echo", "hello")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEmptyArgv(t *testing.T) {
	svc := New()
	if _, err := svc.Capture().Invoke(context.Background(), nil); !errors.Is(err, ErrEmptyArgv) {
		t.Errorf("expected ErrEmptyArgv, got %v", err)
	}
}

func TestCaptureCombinedMergesStderr(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	res, err := svc.CaptureCombined().Invoke(context.Background(),
		[]string{"sh", "-c", "echo out; echo err >&2; echo tail"})
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if got := res.OutputString(); got != "out\nerr\ntail" {
		t.Errorf("combined output = %q", got)
	}
	if len(res.Stderr) != 0 {
		t.Errorf("Stderr = %q, want everything merged into stdout", res.Stderr)
	}
}

func TestInvocationIDAssigned(t *testing.T) {
	skipOnWindows(t)
	svc := New()

	res, err := command.New("echo", "x").CallSubprocess(context.Background(), svc.Capture())
	if err != nil {
		t.Fatalf("CallSubprocess error: %v", err)
	}
	if res.InvocationID == "" {
		t.Error("InvocationID not assigned")
	}
	if res.Duration <= 0 {
		t.Error("Duration not recorded")
	}
}

func TestSpawnLimiterIsConsulted(t *testing.T) {
	skipOnWindows(t)
	// A one-token bucket: the second spawn must wait for the refill.
	limiter := resilience.NewSpawnLimiter(resilience.SpawnLimiterConfig{
		SpawnsPerSecond: 20,
		Burst:           1,
	})
	svc := New(WithSpawnLimiter(limiter))

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := svc.CheckCall(context.Background(), command.New("true")); err != nil {
			t.Fatalf("CheckCall error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("three spawns finished in %v, limiter not applied", elapsed)
	}
}
