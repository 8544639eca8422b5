package models

import "time"

// Uploader modes for cover-art publishing.
const (
	UploaderCurl = "curl" // shell out to curl (matches the original tool chain)
	UploaderHTTP = "http" // direct multipart POST
)

// PresenceConfig holds the Discord-facing settings.
type PresenceConfig struct {
	ApplicationID string `yaml:"application_id"`
}

// SessionConfig holds media-session matching and debounce settings.
type SessionConfig struct {
	// PlayerMatch is matched as a substring against the session's
	// source identity. Sessions from other players clear the presence.
	PlayerMatch string `yaml:"player_match"`
	// DebounceMillis is the settle delay applied before reacting to a
	// session or property change notification.
	DebounceMillis int `yaml:"debounce_ms"`
}

// ArtworkConfig holds cover-art upload settings.
type ArtworkConfig struct {
	Uploader      string `yaml:"uploader"` // "curl" | "http"
	Host          string `yaml:"host"`
	ExpiryMinutes int    `yaml:"expiry_minutes"`
}

// UpdatesConfig holds settings for update checking.
type UpdatesConfig struct {
	CheckOnStartup bool `yaml:"check_on_startup"`
	// CheckFrequency is "every_launch", "daily", or "weekly".
	CheckFrequency string     `yaml:"check_frequency"`
	LastChecked    *time.Time `yaml:"last_checked,omitempty"`
}

// Settings represents global application settings.
// This corresponds to ~/.tidewave/settings.yaml.
type Settings struct {
	Version  int            `yaml:"version"`
	Presence PresenceConfig `yaml:"presence"`
	Session  SessionConfig  `yaml:"session"`
	Artwork  ArtworkConfig  `yaml:"artwork"`
	Updates  UpdatesConfig  `yaml:"updates"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Presence: PresenceConfig{
			ApplicationID: "1429350918310072372",
		},
		Session: SessionConfig{
			PlayerMatch:    "TIDAL",
			DebounceMillis: 300,
		},
		Artwork: ArtworkConfig{
			Uploader:      UploaderCurl,
			Host:          "http://0x0.st",
			ExpiryMinutes: 7,
		},
		Updates: UpdatesConfig{
			CheckOnStartup: true,
			CheckFrequency: "daily",
			LastChecked:    nil,
		},
	}
}

// Debounce returns the configured debounce as a duration, falling back
// to the default when unset or invalid.
func (s *Settings) Debounce() time.Duration {
	if s.Session.DebounceMillis <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(s.Session.DebounceMillis) * time.Millisecond
}
