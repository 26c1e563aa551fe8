package shell

import "runtime"

// Profile is the resolved shell family for the host platform. It is
// computed once at package initialization and injected wherever
// serialization or shell-mode invocation needs it, so no component
// branches on the platform at call time.
type Profile struct {
	// ShellArgv is the argument vector that invokes the host shell with a
	// command line appended as the final argument.
	ShellArgv []string

	// Separator joins commands in a sequence. Each command only runs if
	// the previous one succeeded.
	Separator string

	// SourceCommand loads a script into the current shell environment.
	SourceCommand string

	// Windows reports whether this is the Windows shell family.
	Windows bool
}

var defaultProfile = resolve(runtime.GOOS)

func resolve(goos string) *Profile {
	if goos == "windows" {
		return &Profile{
			ShellArgv:     []string{"cmd.exe", "/c"},
			Separator:     "&&",
			SourceCommand: "call",
			Windows:       true,
		}
	}
	return &Profile{
		ShellArgv:     []string{"/bin/bash", "-c"},
		Separator:     "&&",
		SourceCommand: "source",
		Windows:       false,
	}
}

// Default returns the profile for the host platform.
func Default() *Profile {
	return defaultProfile
}

// Posix returns the POSIX profile regardless of the host platform.
func Posix() *Profile {
	return resolve("linux")
}

// WindowsProfile returns the Windows profile regardless of the host platform.
func WindowsProfile() *Profile {
	return resolve("windows")
}

// CommandLine returns the full argv that runs the given command line
// through the host shell.
func (p *Profile) CommandLine(line string) []string {
	argv := make([]string, 0, len(p.ShellArgv)+1)
	argv = append(argv, p.ShellArgv...)
	return append(argv, line)
}
