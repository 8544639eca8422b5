// Package models defines the data types shared between the daemon, the
// CLI, and the configuration files.
package models

// TrackSnapshot is an immutable record of one observed playback moment.
// A new snapshot is created every time session properties are read; it
// is superseded by the next snapshot, never mutated.
type TrackSnapshot struct {
	Title       string
	Artist      string
	Album       string
	CoverArtURL string
}

// SameTrack reports whether two snapshots identify the same track.
// Identity is (Title, Artist) only. Album and cover art are ignored,
// so repeated notifications for the same playback are de-duplicated
// even when the thumbnail arrives late.
func (t TrackSnapshot) SameTrack(other TrackSnapshot) bool {
	return t.Title == other.Title && t.Artist == other.Artist
}

// IsZero reports whether the snapshot is the cleared state.
func (t TrackSnapshot) IsZero() bool {
	return t == TrackSnapshot{}
}
