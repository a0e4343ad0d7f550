//go:build !windows

package process

import "syscall"

// KillTree force-kills a process and everything it spawned by
// signalling the process group (negative PID). Errors are ignored; the
// group may already have exited.
func KillTree(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
