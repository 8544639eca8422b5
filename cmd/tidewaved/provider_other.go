//go:build !linux

package main

import (
	"fmt"
	"runtime"

	"github.com/tidewave-io/tidewave/internal/mediasession"
)

// newSessionManager fails on platforms without a media session backend.
func newSessionManager() (mediasession.Manager, error) {
	return nil, fmt.Errorf("no media session provider for %s", runtime.GOOS)
}
