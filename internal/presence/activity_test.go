package presence

import (
	"testing"

	"github.com/tidewave-io/tidewave/internal/models"
)

func TestNewListeningActivity(t *testing.T) {
	track := models.TrackSnapshot{
		Title:       "Song A",
		Artist:      "Artist X",
		Album:       "Album 1",
		CoverArtURL: "https://host/img123",
	}

	a := NewListeningActivity(track, "1.2.3")

	if a.Type != ActivityTypeListening {
		t.Errorf("Type = %d, want %d", a.Type, ActivityTypeListening)
	}
	if a.Name != "Artist X" {
		t.Errorf("Name = %q, want artist", a.Name)
	}
	if a.Details != "Song A" {
		t.Errorf("Details = %q, want title", a.Details)
	}
	if a.State != "Artist X" {
		t.Errorf("State = %q, want artist", a.State)
	}
	if a.Assets == nil {
		t.Fatal("Assets is nil")
	}
	if a.Assets.LargeImage != "https://host/img123" {
		t.Errorf("LargeImage = %q, want cover URL", a.Assets.LargeImage)
	}
	if a.Assets.LargeText != "Playing on TIDAL" {
		t.Errorf("LargeText = %q", a.Assets.LargeText)
	}
	if a.Assets.SmallImage != "tidal-icon" {
		t.Errorf("SmallImage = %q", a.Assets.SmallImage)
	}
	if a.Assets.SmallText != "tidewave 1.2.3" {
		t.Errorf("SmallText = %q", a.Assets.SmallText)
	}
}

func TestNewListeningActivityWithoutCover(t *testing.T) {
	track := models.TrackSnapshot{Title: "Song A", Artist: "Artist X"}

	a := NewListeningActivity(track, "dev")

	if a.Assets.LargeImage != "" {
		t.Errorf("LargeImage = %q, want empty without cover art", a.Assets.LargeImage)
	}
	if a.Assets.LargeText != "" {
		t.Errorf("LargeText = %q, want empty without cover art", a.Assets.LargeText)
	}
	if a.Assets.SmallImage != "tidal-icon" {
		t.Errorf("SmallImage = %q, branding should not depend on cover art", a.Assets.SmallImage)
	}
}
