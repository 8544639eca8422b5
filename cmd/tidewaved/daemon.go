package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tidewave-io/tidewave/internal/artwork"
	"github.com/tidewave-io/tidewave/internal/buildinfo"
	"github.com/tidewave-io/tidewave/internal/config"
	"github.com/tidewave-io/tidewave/internal/daemon/coordinator"
	"github.com/tidewave-io/tidewave/internal/daemon/listener"
	"github.com/tidewave-io/tidewave/internal/daemon/server"
	"github.com/tidewave-io/tidewave/internal/daemon/watcher"
	"github.com/tidewave-io/tidewave/internal/mediasession"
	"github.com/tidewave-io/tidewave/internal/models"
	"github.com/tidewave-io/tidewave/internal/presence"
)

// daemon owns the long-lived pieces: the session manager, presence
// client, coordinator, listener, settings watcher, and gRPC server.
type daemon struct {
	settingsMu sync.RWMutex
	settings   models.Settings

	sessions mediasession.Manager
	pub      *presence.Client
	coord    *coordinator.Coordinator
	listener *listener.Listener
	watcher  *watcher.Watcher
	srv      *server.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func newDaemon(port int) (*daemon, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	sessions, err := newSessionManager()
	if err != nil {
		return nil, fmt.Errorf("media session manager: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &daemon{
		settings: *settings,
		sessions: sessions,
		ctx:      ctx,
		cancel:   cancel,
	}
	d.pub = presence.NewClient(settings.Presence.ApplicationID)
	d.coord = coordinator.New(sessions, &settingsUploader{d: d}, d.pub, d.currentSettings, buildinfo.Version)
	d.listener = listener.New(sessions, d.coord, func() time.Duration {
		s := d.currentSettings()
		return s.Debounce()
	})

	srv, err := server.New(port, d.coord, d.forceUpdate)
	if err != nil {
		cancel()
		_ = sessions.Close()
		return nil, err
	}
	d.srv = srv

	return d, nil
}

func (d *daemon) currentSettings() models.Settings {
	d.settingsMu.RLock()
	defer d.settingsMu.RUnlock()
	return d.settings
}

// forceUpdate runs a forced cycle off the caller's goroutine so tray
// and gRPC handlers never block on the pipe.
func (d *daemon) forceUpdate() {
	go d.coord.ProcessCurrentSession(d.ctx, true)
}

// start launches the gRPC server, the session listener, and the
// settings watcher, then publishes whatever is already playing.
func (d *daemon) start(onServerError func(error)) {
	d.coord.OnSnapshot(func(track models.TrackSnapshot) {
		if err := config.UpdateDaemonNowPlaying(track); err != nil {
			log.Printf("Failed to record now playing: %v", err)
		}
	})

	go func() {
		if err := d.srv.Serve(); err != nil {
			onServerError(err)
		}
	}()

	d.listener.Start(d.ctx)

	if w, err := watcher.New(); err != nil {
		log.Printf("Settings watcher unavailable: %v", err)
	} else if err := w.Start(); err != nil {
		log.Printf("Settings watcher failed to start: %v", err)
	} else {
		d.watcher = w
		go d.watchSettings()
	}

	go d.coord.ProcessCurrentSession(d.ctx, false)

	go notifyForceUpdate(d.ctx, d.forceUpdate)
}

func (d *daemon) watchSettings() {
	for range d.watcher.Events() {
		settings, err := config.LoadSettings()
		if err != nil {
			log.Printf("Failed to reload settings: %v", err)
			continue
		}
		d.settingsMu.Lock()
		d.settings = *settings
		d.settingsMu.Unlock()
		log.Printf("Settings reloaded")
	}
}

func (d *daemon) stop() {
	d.cancel()
	d.listener.Stop()
	if d.watcher != nil {
		d.watcher.Stop()
	}
	d.srv.Stop()
	if err := d.sessions.Close(); err != nil {
		log.Printf("Failed to close session manager: %v", err)
	}
	d.pub.ClearPresence()
	d.pub.Close()
}

// settingsUploader picks the uploader from live settings on each call,
// so a settings change applies without restarting the daemon.
type settingsUploader struct {
	d *daemon
}

func (u *settingsUploader) Upload(ctx context.Context, data []byte) string {
	s := u.d.currentSettings()
	expiry := time.Duration(s.Artwork.ExpiryMinutes) * time.Minute
	if s.Artwork.Uploader == models.UploaderHTTP {
		return artwork.NewHTTPUploader(s.Artwork.Host, expiry).Upload(ctx, data)
	}
	return (&artwork.CurlUploader{Host: s.Artwork.Host, Expiry: expiry}).Upload(ctx, data)
}
