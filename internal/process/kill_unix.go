//go:build !windows

// Package process terminates browser process trees left behind by a driver.
package process

import "syscall"

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort; the driver's own kill runs afterwards
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
