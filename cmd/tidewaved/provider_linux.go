//go:build linux

package main

import (
	"github.com/tidewave-io/tidewave/internal/mediasession"
	"github.com/tidewave-io/tidewave/internal/mediasession/mpris"
)

// newSessionManager returns the MPRIS-backed session manager.
func newSessionManager() (mediasession.Manager, error) {
	return mpris.NewManager()
}
