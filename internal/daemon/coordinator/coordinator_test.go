package coordinator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/tidewave-io/tidewave/internal/mediasession"
	"github.com/tidewave-io/tidewave/internal/models"
	"github.com/tidewave-io/tidewave/internal/presence"
)

// ---- fakes ----

type fakeThumb struct {
	data    []byte
	openErr error
}

func (f *fakeThumb) Open(ctx context.Context) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type fakeSession struct {
	identity string
	props    mediasession.Properties
	propsErr error
}

func (f *fakeSession) SourceIdentity() string { return f.identity }

func (f *fakeSession) Properties(ctx context.Context) (mediasession.Properties, error) {
	if f.propsErr != nil {
		return mediasession.Properties{}, f.propsErr
	}
	return f.props, nil
}

func (f *fakeSession) OnPropertiesChanged(fn func()) func() { return func() {} }

type fakeManager struct {
	session mediasession.Session
}

func (f *fakeManager) CurrentSession() mediasession.Session { return f.session }
func (f *fakeManager) OnCurrentSessionChanged(fn func())    {}
func (f *fakeManager) Close() error                         { return nil }

type fakeUploader struct {
	result   string
	calls    int
	lastData []byte
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte) string {
	f.calls++
	f.lastData = data
	return f.result
}

type fakePublisher struct {
	updates []presence.Activity
	clears  int
}

func (f *fakePublisher) UpdatePresence(a presence.Activity, done func(error)) {
	f.updates = append(f.updates, a)
	if done != nil {
		done(nil)
	}
}

func (f *fakePublisher) ClearPresence() { f.clears++ }
func (f *fakePublisher) Close()         {}

func defaultSettings() models.Settings {
	return *models.NewSettings()
}

func newTestCoordinator(session mediasession.Session, uploader *fakeUploader, pub *fakePublisher) *Coordinator {
	return New(&fakeManager{session: session}, uploader, pub, defaultSettings, "test")
}

// ---- tests ----

func TestProcessPublishesTrack(t *testing.T) {
	thumb := make([]byte, 10*1024)
	session := &fakeSession{
		identity: "TIDAL.exe",
		props: mediasession.Properties{
			Title:     "Song A",
			Artist:    "Artist X",
			Album:     "Album 1",
			Thumbnail: &fakeThumb{data: thumb},
		},
	}
	uploader := &fakeUploader{result: "https://host/img123"}
	pub := &fakePublisher{}
	c := newTestCoordinator(session, uploader, pub)

	c.ProcessCurrentSession(context.Background(), false)

	if uploader.calls != 1 {
		t.Fatalf("uploader calls = %d, want 1", uploader.calls)
	}
	if len(uploader.lastData) != len(thumb) {
		t.Errorf("uploaded %d bytes, want %d", len(uploader.lastData), len(thumb))
	}
	if len(pub.updates) != 1 {
		t.Fatalf("publisher updates = %d, want 1", len(pub.updates))
	}
	a := pub.updates[0]
	if a.Details != "Song A" || a.State != "Artist X" {
		t.Errorf("activity = %+v, want Song A / Artist X", a)
	}
	if a.Assets == nil || a.Assets.LargeImage != "https://host/img123" {
		t.Errorf("large image not set from upload result: %+v", a.Assets)
	}

	now := c.NowPlaying()
	if now.Title != "Song A" || now.CoverArtURL != "https://host/img123" {
		t.Errorf("NowPlaying = %+v", now)
	}
}

// blockingSession parks inside Properties until released so a cycle
// can be held in flight.
type blockingSession struct {
	identity   string
	props      mediasession.Properties
	entered    chan struct{}
	release    chan struct{}
	propsCalls int
}

func (s *blockingSession) SourceIdentity() string { return s.identity }

func (s *blockingSession) Properties(ctx context.Context) (mediasession.Properties, error) {
	s.propsCalls++
	s.entered <- struct{}{}
	<-s.release
	return s.props, nil
}

func (s *blockingSession) OnPropertiesChanged(fn func()) func() { return func() {} }

func TestProcessOverlapDropped(t *testing.T) {
	session := &blockingSession{
		identity: "TIDAL.exe",
		props: mediasession.Properties{
			Title:  "Song A",
			Artist: "Artist X",
		},
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	uploader := &fakeUploader{}
	pub := &fakePublisher{}
	c := newTestCoordinator(session, uploader, pub)

	first := make(chan struct{})
	go func() {
		defer close(first)
		c.ProcessCurrentSession(context.Background(), false)
	}()
	<-session.entered

	// A second event-driven cycle while the first is in flight is a
	// no-op and must not touch the session or publisher.
	c.ProcessCurrentSession(context.Background(), false)

	close(session.release)
	<-first

	if session.propsCalls != 1 {
		t.Errorf("properties reads = %d, want 1", session.propsCalls)
	}
	if len(pub.updates) != 1 {
		t.Fatalf("publisher updates = %d, want 1", len(pub.updates))
	}
	if pub.updates[0].Details != "Song A" {
		t.Errorf("published %+v, want Song A", pub.updates[0])
	}
}

func TestProcessDuplicateSuppressed(t *testing.T) {
	session := &fakeSession{
		identity: "TIDAL",
		props:    mediasession.Properties{Title: "Song A", Artist: "Artist X"},
	}
	uploader := &fakeUploader{}
	pub := &fakePublisher{}
	c := newTestCoordinator(session, uploader, pub)

	c.ProcessCurrentSession(context.Background(), false)
	c.ProcessCurrentSession(context.Background(), false)

	if len(pub.updates) != 1 {
		t.Fatalf("publisher updates = %d, want 1 (duplicate suppressed)", len(pub.updates))
	}

	// A forced cycle republishes the same track.
	c.ProcessCurrentSession(context.Background(), true)
	if len(pub.updates) != 2 {
		t.Fatalf("publisher updates = %d, want 2 after forced cycle", len(pub.updates))
	}
}

func TestProcessTrackChangeRepublishes(t *testing.T) {
	session := &fakeSession{
		identity: "TIDAL",
		props:    mediasession.Properties{Title: "Song A", Artist: "Artist X"},
	}
	pub := &fakePublisher{}
	c := newTestCoordinator(session, &fakeUploader{}, pub)

	c.ProcessCurrentSession(context.Background(), false)
	session.props.Title = "Song B"
	c.ProcessCurrentSession(context.Background(), false)

	if len(pub.updates) != 2 {
		t.Fatalf("publisher updates = %d, want 2", len(pub.updates))
	}
	if pub.updates[1].Details != "Song B" {
		t.Errorf("second activity = %+v, want Song B", pub.updates[1])
	}
}

func TestProcessNoSessionClearsPresence(t *testing.T) {
	pub := &fakePublisher{}
	c := newTestCoordinator(nil, &fakeUploader{}, pub)

	c.ProcessCurrentSession(context.Background(), false)

	if pub.clears != 1 {
		t.Errorf("clears = %d, want 1", pub.clears)
	}
	if len(pub.updates) != 0 {
		t.Errorf("updates = %d, want 0", len(pub.updates))
	}
	if !c.NowPlaying().IsZero() {
		t.Errorf("NowPlaying = %+v, want zero", c.NowPlaying())
	}
}

func TestProcessIdentityMismatchClearsPresence(t *testing.T) {
	session := &fakeSession{
		identity: "OtherPlayer.exe",
		props:    mediasession.Properties{Title: "Song A", Artist: "Artist X"},
	}
	pub := &fakePublisher{}
	c := newTestCoordinator(session, &fakeUploader{}, pub)

	c.ProcessCurrentSession(context.Background(), false)

	if pub.clears != 1 {
		t.Errorf("clears = %d, want 1", pub.clears)
	}
	if len(pub.updates) != 0 {
		t.Errorf("updates = %d, want 0", len(pub.updates))
	}
}

func TestProcessPropertiesErrorResetsCache(t *testing.T) {
	session := &fakeSession{
		identity: "TIDAL",
		props:    mediasession.Properties{Title: "Song A", Artist: "Artist X"},
	}
	pub := &fakePublisher{}
	c := newTestCoordinator(session, &fakeUploader{}, pub)

	c.ProcessCurrentSession(context.Background(), false)
	if len(pub.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(pub.updates))
	}

	// A failed read publishes nothing and clears nothing.
	session.propsErr = fmt.Errorf("%w: properties get", mediasession.ErrPlatform)
	c.ProcessCurrentSession(context.Background(), false)
	if len(pub.updates) != 1 || pub.clears != 0 {
		t.Fatalf("updates = %d clears = %d after error, want 1/0", len(pub.updates), pub.clears)
	}

	// The cache was reset, so the same track republishes once readable.
	session.propsErr = nil
	c.ProcessCurrentSession(context.Background(), false)
	if len(pub.updates) != 2 {
		t.Fatalf("updates = %d, want 2 after recovery", len(pub.updates))
	}
}

func TestProcessUploadFailurePublishesWithoutCover(t *testing.T) {
	tests := []struct {
		name   string
		result string
	}{
		{name: "error marker", result: "Error: curl exited with status 6"},
		{name: "exception marker", result: "host raised Exception: quota"},
		{name: "empty result", result: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeSession{
				identity: "TIDAL",
				props: mediasession.Properties{
					Title:     "Song A",
					Artist:    "Artist X",
					Thumbnail: &fakeThumb{data: []byte("png")},
				},
			}
			pub := &fakePublisher{}
			c := newTestCoordinator(session, &fakeUploader{result: tt.result}, pub)

			c.ProcessCurrentSession(context.Background(), false)

			if len(pub.updates) != 1 {
				t.Fatalf("updates = %d, want 1", len(pub.updates))
			}
			if pub.updates[0].Assets.LargeImage != "" {
				t.Errorf("LargeImage = %q, want empty on failed upload", pub.updates[0].Assets.LargeImage)
			}
		})
	}
}

func TestProcessThumbnailFailures(t *testing.T) {
	tests := []struct {
		name  string
		thumb mediasession.ThumbnailSource
	}{
		{name: "no thumbnail", thumb: nil},
		{name: "open fails", thumb: &fakeThumb{openErr: fmt.Errorf("open failed")}},
		{name: "zero bytes", thumb: &fakeThumb{data: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeSession{
				identity: "TIDAL",
				props: mediasession.Properties{
					Title:     "Song A",
					Artist:    "Artist X",
					Thumbnail: tt.thumb,
				},
			}
			uploader := &fakeUploader{result: "https://host/img123"}
			pub := &fakePublisher{}
			c := newTestCoordinator(session, uploader, pub)

			c.ProcessCurrentSession(context.Background(), false)

			if uploader.calls != 0 {
				t.Errorf("uploader calls = %d, want 0", uploader.calls)
			}
			if len(pub.updates) != 1 {
				t.Fatalf("updates = %d, want 1 (publish continues without artwork)", len(pub.updates))
			}
			if pub.updates[0].Assets.LargeImage != "" {
				t.Errorf("LargeImage = %q, want empty", pub.updates[0].Assets.LargeImage)
			}
		})
	}
}

// An all-empty metadata snapshot is the transient state players
// expose mid track change; it is skipped rather than published, even
// though the cycle itself runs.
func TestProcessEmptyTrackSkipped(t *testing.T) {
	session := &fakeSession{identity: "TIDAL"}
	pub := &fakePublisher{}
	c := newTestCoordinator(session, &fakeUploader{}, pub)

	c.ProcessCurrentSession(context.Background(), false)

	if len(pub.updates) != 0 || pub.clears != 0 {
		t.Errorf("updates = %d clears = %d, want 0/0", len(pub.updates), pub.clears)
	}
}

func TestResetCacheRepublishes(t *testing.T) {
	session := &fakeSession{
		identity: "TIDAL",
		props:    mediasession.Properties{Title: "Song A", Artist: "Artist X"},
	}
	pub := &fakePublisher{}
	c := newTestCoordinator(session, &fakeUploader{}, pub)

	c.ProcessCurrentSession(context.Background(), false)
	c.ResetCache()
	c.ProcessCurrentSession(context.Background(), false)

	if len(pub.updates) != 2 {
		t.Fatalf("updates = %d, want 2 after cache reset", len(pub.updates))
	}
}

func TestOnSnapshotHooks(t *testing.T) {
	session := &fakeSession{
		identity: "TIDAL",
		props:    mediasession.Properties{Title: "Song A", Artist: "Artist X"},
	}
	pub := &fakePublisher{}
	mgr := &fakeManager{session: session}
	c := New(mgr, &fakeUploader{}, pub, defaultSettings, "test")

	var snapshots []models.TrackSnapshot
	c.OnSnapshot(func(s models.TrackSnapshot) {
		snapshots = append(snapshots, s)
	})

	c.ProcessCurrentSession(context.Background(), false)
	mgr.session = nil
	c.ProcessCurrentSession(context.Background(), false)

	if len(snapshots) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snapshots))
	}
	if snapshots[0].Title != "Song A" {
		t.Errorf("first snapshot = %+v", snapshots[0])
	}
	if !snapshots[1].IsZero() {
		t.Errorf("second snapshot = %+v, want zero after clear", snapshots[1])
	}
}
