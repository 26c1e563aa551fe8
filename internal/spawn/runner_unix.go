//go:build unix

package spawn

import "syscall"

// defaultSysProcAttr places the child in its own process group so the
// whole tree can be killed together.
func defaultSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
		Pgid:    0,
	}
}
