// Package coordinator drives one presence-update cycle: read the
// current media session, dedupe against the last published track,
// upload cover art, and publish the activity.
package coordinator

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tidewave-io/tidewave/internal/artwork"
	"github.com/tidewave-io/tidewave/internal/mediasession"
	"github.com/tidewave-io/tidewave/internal/models"
	"github.com/tidewave-io/tidewave/internal/presence"
)

// SettingsFunc returns the current settings. The daemon passes a
// closure over its reloadable settings so changes written to disk take
// effect on the next cycle.
type SettingsFunc func() models.Settings

// Coordinator serializes update cycles and owns the last-published
// track cache.
type Coordinator struct {
	sessions mediasession.Manager
	uploader artwork.Uploader
	pub      presence.Publisher
	settings SettingsFunc
	version  string

	busy atomic.Bool

	mu            sync.Mutex
	lastProcessed models.TrackSnapshot
	hasLast       bool
	onSnapshot    []func(models.TrackSnapshot)
}

// New wires a coordinator. version is embedded in the published
// activity's small text.
func New(sessions mediasession.Manager, uploader artwork.Uploader, pub presence.Publisher, settings SettingsFunc, version string) *Coordinator {
	return &Coordinator{
		sessions: sessions,
		uploader: uploader,
		pub:      pub,
		settings: settings,
		version:  version,
	}
}

// OnSnapshot registers a hook invoked after every change to the
// published state, including clears (which deliver a zero snapshot).
func (c *Coordinator) OnSnapshot(fn func(models.TrackSnapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSnapshot = append(c.onSnapshot, fn)
}

// ResetCache forgets the last published track so the next cycle
// publishes unconditionally.
func (c *Coordinator) ResetCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasLast = false
	c.lastProcessed = models.TrackSnapshot{}
}

// NowPlaying returns the last published track, zero if nothing is
// published.
func (c *Coordinator) NowPlaying() models.TrackSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasLast {
		return models.TrackSnapshot{}
	}
	return c.lastProcessed
}

// ProcessCurrentSession runs one update cycle. Concurrent non-forced
// cycles are dropped while another is in flight; a forced cycle always
// runs and additionally bypasses the duplicate-track check.
func (c *Coordinator) ProcessCurrentSession(ctx context.Context, forced bool) {
	if forced {
		c.busy.Store(true)
	} else if !c.busy.CompareAndSwap(false, true) {
		log.Printf("update cycle already in progress, skipping")
		return
	}
	defer c.busy.Store(false)

	settings := c.settings()

	session := c.sessions.CurrentSession()
	if session == nil {
		log.Printf("no active media session")
		c.clearPresence()
		return
	}

	identity := session.SourceIdentity()
	if !strings.Contains(identity, settings.Session.PlayerMatch) {
		log.Printf("session source %q does not match %q, clearing presence", identity, settings.Session.PlayerMatch)
		c.clearPresence()
		return
	}

	props, err := session.Properties(ctx)
	if err != nil {
		log.Printf("failed to read media properties: %v", err)
		c.ResetCache()
		return
	}

	track := models.TrackSnapshot{
		Title:  props.Title,
		Artist: props.Artist,
		Album:  props.Album,
	}
	// Players briefly expose an empty title and artist mid track
	// change. Such a snapshot is never worth publishing; the follow-up
	// notification carries the real values.
	if track.Title == "" && track.Artist == "" {
		log.Printf("session reported an empty track, skipping")
		return
	}

	if !forced {
		c.mu.Lock()
		dup := c.hasLast && track.SameTrack(c.lastProcessed)
		c.mu.Unlock()
		if dup {
			return
		}
	}

	log.Printf("processing track: %s - %s", track.Artist, track.Title)

	if data := c.readThumbnail(ctx, props.Thumbnail); len(data) > 0 {
		result := c.uploader.Upload(ctx, data)
		if url, ok := artwork.PublicURL(result); ok {
			track.CoverArtURL = url
		} else {
			log.Printf("cover art upload failed: %s", result)
		}
	}

	activity := presence.NewListeningActivity(track, c.version)
	c.pub.UpdatePresence(activity, func(err error) {
		if err != nil {
			log.Printf("presence update failed: %v", err)
			return
		}
		log.Printf("presence updated: %s - %s", track.Artist, track.Title)
	})

	c.mu.Lock()
	c.lastProcessed = track
	c.hasLast = true
	hooks := append([]func(models.TrackSnapshot){}, c.onSnapshot...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(track)
	}
}

func (c *Coordinator) clearPresence() {
	c.pub.ClearPresence()

	c.mu.Lock()
	c.hasLast = false
	c.lastProcessed = models.TrackSnapshot{}
	hooks := append([]func(models.TrackSnapshot){}, c.onSnapshot...)
	c.mu.Unlock()
	for _, fn := range hooks {
		fn(models.TrackSnapshot{})
	}
}

// readThumbnail drains the session's thumbnail stream. Every failure
// mode is logged with its stage and treated as "no artwork".
func (c *Coordinator) readThumbnail(ctx context.Context, src mediasession.ThumbnailSource) []byte {
	if src == nil {
		log.Printf("no thumbnail on media properties")
		return nil
	}
	rc, err := src.Open(ctx)
	if err != nil {
		log.Printf("thumbnail open failed: %v", err)
		return nil
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		log.Printf("thumbnail read failed: %v", err)
		return nil
	}
	if len(data) == 0 {
		log.Printf("thumbnail stream was empty")
		return nil
	}
	return data
}
