// Package proctree tears down subprocess trees: a target process and all
// of its transitive descendants, enumerated fresh from the OS process
// table at call time.
package proctree

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v4/process"
)

var logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger replaces the logger used for teardown notices.
func SetLogger(log zerolog.Logger) {
	logger = log
}

// KillAllChildProcesses kills every descendant of the target process,
// grandchildren included.
//
// When pid is zero or negative the target is the calling process: its
// descendants are killed and the caller itself survives. When pid names
// another process, that process is killed after its descendants.
//
// A target that cannot be resolved (already exited, never existed, or
// torn down by a racing caller) is a silent no-op. Teardown is
// best-effort: a failure to kill one process does not stop the others,
// and the individual failures are aggregated into the returned error.
func KillAllChildProcesses(pid int32) error {
	includeParent := true
	if pid <= 0 {
		pid = int32(os.Getpid())
		includeParent = false
	}
	logger.Info().Int32("pid", pid).Msg("leaving process")

	parent, err := process.NewProcess(pid)
	if err != nil {
		// Target is already gone.
		return nil
	}

	var errs []error
	for _, child := range descendants(parent) {
		if err := kill(child); err != nil {
			errs = append(errs, fmt.Errorf("kill pid %d: %w", child.Pid, err))
		}
	}
	if includeParent {
		if err := kill(parent); err != nil {
			errs = append(errs, fmt.Errorf("kill pid %d: %w", parent.Pid, err))
		}
	}
	return errors.Join(errs...)
}

// descendants walks the process tree breadth-first. Lookup failures are
// absorbed: a process that exits mid-walk simply drops out of the result.
func descendants(parent *process.Process) []*process.Process {
	var all []*process.Process
	frontier := []*process.Process{parent}
	for len(frontier) > 0 {
		p := frontier[0]
		frontier = frontier[1:]
		children, err := p.Children()
		if err != nil {
			continue
		}
		all = append(all, children...)
		frontier = append(frontier, children...)
	}
	return all
}

func kill(p *process.Process) error {
	err := p.Kill()
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
