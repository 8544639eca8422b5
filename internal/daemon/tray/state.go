// Package tray implements the system tray icon and menu for the daemon.
package tray

import "github.com/tidewave-io/tidewave/internal/models"

// DaemonState provides access to daemon state for the tray.
type DaemonState interface {
	Port() int
	NowPlaying() models.TrackSnapshot
	ForceUpdate()
	RequestShutdown()
}
