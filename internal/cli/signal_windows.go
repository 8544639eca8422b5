//go:build windows

package cli

import "fmt"

// forceUpdateSignal is unavailable on windows; the gRPC path is the
// only remote trigger there.
func forceUpdateSignal(pid int) error {
	return fmt.Errorf("force update via signal not supported on windows")
}
