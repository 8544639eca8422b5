package tui

import "testing"

func TestLastPublishedTrack(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "single publish",
			content:  "[tidewaved] presence updated: Artist X - Song A\n",
			expected: "Artist X - Song A",
		},
		{
			name: "latest publish wins",
			content: "[tidewaved] presence updated: Artist X - Song A\n" +
				"[tidewaved] presence updated: Artist Y - Song B\n",
			expected: "Artist Y - Song B",
		},
		{
			name: "clear after publish",
			content: "[tidewaved] presence updated: Artist X - Song A\n" +
				"[tidewaved] no active media session\n",
			expected: "",
		},
		{
			name: "mismatch clears",
			content: "[tidewaved] presence updated: Artist X - Song A\n" +
				"[tidewaved] session source \"OtherPlayer\" does not match \"TIDAL\", clearing presence\n",
			expected: "",
		},
		{
			name: "publish after clear",
			content: "[tidewaved] no active media session\n" +
				"[tidewaved] presence updated: Artist X - Song A\n",
			expected: "Artist X - Song A",
		},
		{
			name:     "empty log",
			content:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastPublishedTrack(tt.content); got != tt.expected {
				t.Errorf("lastPublishedTrack() = %q, want %q", got, tt.expected)
			}
		})
	}
}
