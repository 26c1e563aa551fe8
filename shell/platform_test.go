package shell

import (
	"runtime"
	"testing"
)

func TestPosixProfile(t *testing.T) {
	p := Posix()
	if p.Windows {
		t.Error("Posix profile should not be Windows")
	}
	if len(p.ShellArgv) != 2 || p.ShellArgv[0] != "/bin/bash" || p.ShellArgv[1] != "-c" {
		t.Errorf("unexpected shell argv: %v", p.ShellArgv)
	}
	if p.Separator != "&&" {
		t.Errorf("expected && separator, got %q", p.Separator)
	}
	if p.SourceCommand != "source" {
		t.Errorf("expected source command, got %q", p.SourceCommand)
	}
}

func TestWindowsProfile(t *testing.T) {
	p := WindowsProfile()
	if !p.Windows {
		t.Error("Windows profile should be Windows")
	}
	if len(p.ShellArgv) != 2 || p.ShellArgv[0] != "cmd.exe" || p.ShellArgv[1] != "/c" {
		t.Errorf("unexpected shell argv: %v", p.ShellArgv)
	}
	if p.SourceCommand != "call" {
		t.Errorf("expected call command, got %q", p.SourceCommand)
	}
}

func TestDefaultMatchesHost(t *testing.T) {
	if Default().Windows != (runtime.GOOS == "windows") {
		t.Errorf("Default().Windows = %v on %s", Default().Windows, runtime.GOOS)
	}
}

func TestCommandLine(t *testing.T) {
	argv := Posix().CommandLine("echo a && echo b")
	want := []string{"/bin/bash", "-c", "echo a && echo b"}
	if len(argv) != len(want) {
		t.Fatalf("CommandLine returned %v", argv)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}
