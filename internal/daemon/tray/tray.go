package tray

import (
	"fmt"
	"log"

	"github.com/getlantern/systray"

	"github.com/tidewave-io/tidewave/internal/models"
)

var (
	state   DaemonState
	onStart func()
	onExit  func()

	portItem       *systray.MenuItem
	nowPlayingItem *systray.MenuItem
	forceItem      *systray.MenuItem
	quitItem       *systray.MenuItem
)

const idleTitle = "Nothing playing"

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (launch gRPC server here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DaemonState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip("Tidewave — " + idleTitle)

	// Header
	header := systray.AddMenuItem("Tidewave Daemon", "")
	header.Disable()

	// Port
	portItem = systray.AddMenuItem("Starting...", "")
	portItem.Disable()

	systray.AddSeparator()

	// Now playing
	nowPlayingItem = systray.AddMenuItem(idleTitle, "")
	nowPlayingItem.Disable()

	systray.AddSeparator()

	// Actions
	forceItem = systray.AddMenuItem("Force Update", "Republish the current track")
	consoleItem := systray.AddMenuItem("Logs: run 'tidewave console'", "")
	consoleItem.Disable()
	quitItem = systray.AddMenuItem("Quit", "Shut down Tidewave daemon")

	// Start the daemon services
	if onStart != nil {
		onStart()
	}

	// Update port display now that server is started
	if state != nil {
		portItem.SetTitle(fmt.Sprintf("Running on port: %d", state.Port()))
		UpdateNowPlaying(state.NowPlaying())
	}

	// Handle click events
	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-forceItem.ClickedCh:
			log.Println("Force update requested from tray")
			if state != nil {
				state.ForceUpdate()
			}

		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

// UpdateNowPlaying refreshes the now-playing menu item and tooltip.
// A zero snapshot means nothing is published.
func UpdateNowPlaying(track models.TrackSnapshot) {
	if nowPlayingItem == nil {
		return
	}
	if track.IsZero() {
		nowPlayingItem.SetTitle(idleTitle)
		systray.SetTooltip("Tidewave — " + idleTitle)
		return
	}
	title := formatTrackTitle(track)
	nowPlayingItem.SetTitle(title)
	systray.SetTooltip("Tidewave — " + title)
}

func formatTrackTitle(track models.TrackSnapshot) string {
	return fmt.Sprintf("♪ %s — %s", track.Artist, track.Title)
}
