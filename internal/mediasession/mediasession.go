// Package mediasession defines the contract between the daemon and the
// OS media-session provider. Concrete providers (MPRIS on Linux) live
// in subpackages; the coordinator only sees these interfaces.
package mediasession

import (
	"context"
	"errors"
	"io"
)

// ErrPlatform is the distinguished error for a failed provider call
// while reading session properties. The coordinator treats it as
// "no active session" for cache purposes, without retrying.
var ErrPlatform = errors.New("media session platform call failed")

// Properties is one read of a session's track metadata. Thumbnail is
// nil when the session exposes no cover art.
type Properties struct {
	Title     string
	Artist    string
	Album     string
	Thumbnail ThumbnailSource
}

// ThumbnailSource is an opaque handle to a session's cover art. Open
// may be called at most once per properties read.
type ThumbnailSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Session is a handle to one application's active media playback.
type Session interface {
	// SourceIdentity returns the identity of the application owning
	// the session (matched by substring against the target player).
	SourceIdentity() string

	// Properties reads the session's current track metadata. Errors
	// wrap ErrPlatform.
	Properties(ctx context.Context) (Properties, error)

	// OnPropertiesChanged registers a callback invoked when this
	// session's media properties change. The returned cancel func
	// unsubscribes; it is safe to call more than once.
	OnPropertiesChanged(fn func()) (cancel func())
}

// Manager is the provider-side entry point: it tracks which session is
// current and notifies when that changes.
type Manager interface {
	// CurrentSession returns the current session, or nil when no
	// application is playing media.
	CurrentSession() Session

	// OnCurrentSessionChanged registers a callback invoked whenever
	// the current session switches (including to/from nil).
	OnCurrentSessionChanged(fn func())

	Close() error
}
