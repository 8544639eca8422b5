// Package presence publishes "Listening to ..." activities to a local
// Discord client over its IPC socket.
package presence

import (
	"github.com/tidewave-io/tidewave/internal/models"
)

// ActivityTypeListening is the Discord activity type rendered as
// "Listening to <name>".
const ActivityTypeListening = 2

// Activity is the wire shape of a rich-presence activity.
type Activity struct {
	Type    int     `json:"type"`
	Name    string  `json:"name,omitempty"`
	Details string  `json:"details,omitempty"`
	State   string  `json:"state,omitempty"`
	Assets  *Assets `json:"assets,omitempty"`
}

// Assets holds the image fields of an activity.
type Assets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
	// SmallURL is honored by clients with the newer presence surface
	// and ignored elsewhere.
	SmallURL string `json:"small_url,omitempty"`
}

// Branding fields that are the same for every published track.
const (
	smallImageKey = "tidal-icon"
	largeText     = "Playing on TIDAL"
	projectURL    = "https://github.com/tidewave-io/tidewave"
)

// NewListeningActivity builds the presence payload for one snapshot:
// the artist becomes both the activity name and state, the title the
// details, and the cover art (when present) the large image.
func NewListeningActivity(track models.TrackSnapshot, version string) Activity {
	a := Activity{
		Type:    ActivityTypeListening,
		Name:    track.Artist,
		Details: track.Title,
		State:   track.Artist,
		Assets: &Assets{
			SmallImage: smallImageKey,
			SmallText:  "tidewave " + version,
			SmallURL:   projectURL,
		},
	}
	if track.CoverArtURL != "" {
		a.Assets.LargeImage = track.CoverArtURL
		a.Assets.LargeText = largeText
	}
	return a
}
