package models

import "testing"

func TestSameTrack(t *testing.T) {
	tests := []struct {
		name     string
		a, b     TrackSnapshot
		expected bool
	}{
		{
			name:     "identical snapshots",
			a:        TrackSnapshot{Title: "Song A", Artist: "Artist X"},
			b:        TrackSnapshot{Title: "Song A", Artist: "Artist X"},
			expected: true,
		},
		{
			name:     "different title",
			a:        TrackSnapshot{Title: "Song A", Artist: "Artist X"},
			b:        TrackSnapshot{Title: "Song B", Artist: "Artist X"},
			expected: false,
		},
		{
			name:     "different artist",
			a:        TrackSnapshot{Title: "Song A", Artist: "Artist X"},
			b:        TrackSnapshot{Title: "Song A", Artist: "Artist Y"},
			expected: false,
		},
		{
			name:     "album ignored",
			a:        TrackSnapshot{Title: "Song A", Artist: "Artist X", Album: "Album 1"},
			b:        TrackSnapshot{Title: "Song A", Artist: "Artist X", Album: "Album 2"},
			expected: true,
		},
		{
			name:     "cover art ignored",
			a:        TrackSnapshot{Title: "Song A", Artist: "Artist X", CoverArtURL: "https://host/img1"},
			b:        TrackSnapshot{Title: "Song A", Artist: "Artist X"},
			expected: true,
		},
		{
			name:     "both empty",
			a:        TrackSnapshot{},
			b:        TrackSnapshot{},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.SameTrack(tt.b); got != tt.expected {
				t.Errorf("SameTrack() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTrackSnapshotIsZero(t *testing.T) {
	if !(TrackSnapshot{}).IsZero() {
		t.Error("empty snapshot should be zero")
	}
	if (TrackSnapshot{Title: "Song A"}).IsZero() {
		t.Error("snapshot with a title should not be zero")
	}
	if (TrackSnapshot{CoverArtURL: "https://host/img1"}).IsZero() {
		t.Error("snapshot with cover art should not be zero")
	}
}
