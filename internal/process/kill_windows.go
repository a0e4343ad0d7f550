//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills a process and everything it spawned using
// taskkill, where /F forces and /T takes the child tree along. Errors
// are ignored; the tree may already have exited.
func KillTree(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
