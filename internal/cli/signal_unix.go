//go:build !windows

package cli

import (
	"os"
	"syscall"
)

// forceUpdateSignal sends SIGUSR1 to the daemon, which it maps to a
// forced presence cycle.
func forceUpdateSignal(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return process.Signal(syscall.SIGUSR1)
}
