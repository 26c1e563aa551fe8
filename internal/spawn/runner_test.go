package spawn

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunRequiresDeadline(t *testing.T) {
	r := NewRunner()
	if _, err := r.Run(context.Background(), &RunConfig{Argv: []string{"echo"}}); err == nil {
		t.Error("expected an error for a context without a deadline")
	}
}

func TestRunRejectsEmptyArgv(t *testing.T) {
	r := NewRunner()
	if _, err := r.Run(testContext(t), &RunConfig{}); err == nil {
		t.Error("expected an error for an empty argument vector")
	}
}

func TestRunCapture(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner()

	res, err := r.Run(testContext(t), &RunConfig{
		Argv:    []string{"sh", "-c", "echo out; echo err >&2"},
		Capture: true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d", res.ExitCode)
	}
	if string(res.Stdout) != "out\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if string(res.Stderr) != "err\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if res.Pid <= 0 {
		t.Errorf("Pid = %d", res.Pid)
	}
}

func TestRunCaptureMergeStderr(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner()

	res, err := r.Run(testContext(t), &RunConfig{
		Argv:        []string{"sh", "-c", "echo out; echo err >&2"},
		Capture:     true,
		MergeStderr: true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if string(res.Stdout) != "out\nerr\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if len(res.Stderr) != 0 {
		t.Errorf("Stderr = %q, want empty when merged", res.Stderr)
	}
}

func TestRunNonZeroExitIsNotAnError(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner()

	res, err := r.Run(testContext(t), &RunConfig{Argv: []string{"sh", "-c", "exit 4"}})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.ExitCode != 4 {
		t.Errorf("ExitCode = %d, want 4", res.ExitCode)
	}
}

func TestRunSpawnFailure(t *testing.T) {
	r := NewRunner()
	if _, err := r.Run(testContext(t), &RunConfig{Argv: []string{"/no/such/binary"}}); err == nil {
		t.Error("expected an error for an unresolvable binary")
	}
}

func TestRunEnvOverride(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner()

	res, err := r.Run(testContext(t), &RunConfig{
		Argv:    []string{"sh", "-c", "echo $MARKER"},
		Env:     []string{"MARKER=from-test", "PATH=/usr/bin:/bin"},
		Capture: true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "from-test" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestRunWorkingDir(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner()
	dir := t.TempDir()

	res, err := r.Run(testContext(t), &RunConfig{
		Argv:       []string{"pwd"},
		WorkingDir: dir,
		Capture:    true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if got := strings.TrimSpace(string(res.Stdout)); !strings.HasSuffix(got, dir) {
		t.Errorf("pwd = %q, want suffix %q", got, dir)
	}
}

func TestRunStdin(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner()

	res, err := r.Run(testContext(t), &RunConfig{
		Argv:    []string{"cat"},
		Stdin:   strings.NewReader("piped"),
		Capture: true,
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if string(res.Stdout) != "piped" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestLookPath(t *testing.T) {
	skipOnWindows(t)
	if _, err := LookPath("sh"); err != nil {
		t.Errorf("LookPath(sh) error: %v", err)
	}
	if _, err := LookPath("no-such-binary-gospawn"); err == nil {
		t.Error("expected an error for an unknown binary")
	}
}

func TestBuildEnv(t *testing.T) {
	env := BuildEnv(map[string]string{"A": "1", "B": "two"})
	sort.Strings(env)
	if len(env) != 2 || env[0] != "A=1" || env[1] != "B=two" {
		t.Errorf("BuildEnv = %v", env)
	}
}
