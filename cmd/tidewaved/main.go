// Package main is the entry point for the tidewaved daemon.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidewave-io/tidewave/internal/config"
	"github.com/tidewave-io/tidewave/internal/daemon/server"
	"github.com/tidewave-io/tidewave/internal/daemon/tray"
	"github.com/tidewave-io/tidewave/internal/models"
)

func main() {
	// Parse flags
	foreground := flag.Bool("foreground", false, "Run in foreground (for development)")
	port := flag.Int("port", 0, "Port to listen on (0 for dynamic allocation)")
	flag.Parse()

	log.SetPrefix("[tidewaved] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure global directory exists
	if err := config.EnsureGlobalDir(); err != nil {
		log.Fatalf("Failed to create global directory: %v", err)
	}

	// Mirror log output into the daemon log so the console command can
	// tail it.
	if err := config.EnsureGlobalLogsDir(); err == nil {
		if logPath, err := config.DaemonLogFile(); err == nil {
			if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				log.SetOutput(io.MultiWriter(os.Stderr, f))
			}
		}
	}

	// Check if daemon is already running
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	if *foreground {
		log.Println("Running in foreground mode (no system tray)")
		runForeground(*port)
	} else {
		log.Println("Running in background mode (with system tray)")
		runWithTray(*port)
	}
}

// runForeground runs the daemon without a system tray, blocking on signals.
func runForeground(port int) {
	d, err := newDaemon(port)
	if err != nil {
		log.Fatalf("Failed to start daemon: %v", err)
	}

	daemonInfo := models.NewDaemonInfo("localhost", d.srv.Port(), os.Getpid())
	if err := config.SaveDaemonInfo(daemonInfo); err != nil {
		log.Fatalf("Failed to write daemon info: %v", err)
	}

	log.Printf("Daemon started on port %d (PID %d)", d.srv.Port(), os.Getpid())

	errCh := make(chan error, 1)
	d.start(func(err error) {
		errCh <- err
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	d.stop()

	if err := config.RemoveDaemonInfo(); err != nil {
		log.Printf("Failed to remove daemon info: %v", err)
	}

	fmt.Println("Daemon stopped")
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(port int) {
	var d *daemon

	onStart := func() {
		var err error
		d, err = newDaemon(port)
		if err != nil {
			log.Fatalf("Failed to start daemon: %v", err)
		}

		daemonInfo := models.NewDaemonInfo("localhost", d.srv.Port(), os.Getpid())
		if err := config.SaveDaemonInfo(daemonInfo); err != nil {
			log.Fatalf("Failed to write daemon info: %v", err)
		}

		log.Printf("Daemon started on port %d (PID %d)", d.srv.Port(), os.Getpid())

		d.start(func(err error) {
			log.Printf("Server error: %v", err)
			tray.Quit()
		})

		// Keep the tray's now-playing line in sync with what we publish.
		d.coord.OnSnapshot(tray.UpdateNowPlaying)

		// Handle OS signals. SIGINT/SIGTERM quit the tray.
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Printf("Received signal %v, shutting down...", sig)
			tray.Quit()
		}()
	}

	onExit := func() {
		if d != nil {
			d.stop()
		}

		if err := config.RemoveDaemonInfo(); err != nil {
			log.Printf("Failed to remove daemon info: %v", err)
		}

		fmt.Println("Daemon stopped")
	}

	// We need a DaemonState before the server is created, so we use a
	// lazy wrapper that defers to the real TrayState once the server exists.
	lazyState := &lazyDaemonState{getDaemon: func() *daemon { return d }}

	// This blocks the main goroutine until tray exits.
	tray.Run(lazyState, onStart, onExit)
}

// lazyDaemonState wraps server.TrayState with lazy initialization.
// The daemon is nil at tray startup and created inside onStart.
type lazyDaemonState struct {
	getDaemon func() *daemon
}

func (l *lazyDaemonState) Port() int {
	if d := l.getDaemon(); d != nil {
		return server.NewTrayState(d.srv).Port()
	}
	return 0
}

func (l *lazyDaemonState) NowPlaying() models.TrackSnapshot {
	if d := l.getDaemon(); d != nil {
		return server.NewTrayState(d.srv).NowPlaying()
	}
	return models.TrackSnapshot{}
}

func (l *lazyDaemonState) ForceUpdate() {
	if d := l.getDaemon(); d != nil {
		server.NewTrayState(d.srv).ForceUpdate()
	}
}

func (l *lazyDaemonState) RequestShutdown() {
	if d := l.getDaemon(); d != nil {
		server.NewTrayState(d.srv).RequestShutdown()
	}
}
