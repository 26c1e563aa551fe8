//go:build windows

package spawn

import "syscall"

// defaultSysProcAttr returns nil on Windows; process groups are not
// expressed through SysProcAttr there.
func defaultSysProcAttr() *syscall.SysProcAttr {
	return nil
}
