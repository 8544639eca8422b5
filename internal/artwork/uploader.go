// Package artwork publishes cover-art bytes to a public image host and
// hands back a short-lived URL for use in presence payloads.
package artwork

import (
	"context"
	"strings"
)

// Diagnostic markers embedded in upload results. Upload never returns
// a Go error for a failed attempt; it mirrors the contract of the
// external helper: the result text either is a usable URL or carries
// one of these markers.
const (
	MarkerError     = "Error:"     // transport or process failure
	MarkerException = "Exception:" // unexpected condition inside the helper
)

// Uploader publishes raw image bytes. The returned text is either a
// public URL or a marker-carrying diagnostic; use PublicURL to tell
// them apart.
type Uploader interface {
	Upload(ctx context.Context, data []byte) string
}

// PublicURL inspects an upload result. It returns the usable public
// reference and true, or "" and false when the result is empty or
// carries a diagnostic marker.
func PublicURL(result string) (string, bool) {
	if result == "" {
		return "", false
	}
	if strings.Contains(result, MarkerError) || strings.Contains(result, MarkerException) {
		return "", false
	}
	return result, true
}

// trimTrailingNewlines strips up to two trailing CR/LF characters, the
// way curl output arrives on both unix and windows.
func trimTrailingNewlines(s string) string {
	for i := 0; i < 2; i++ {
		if n := len(s); n > 0 && (s[n-1] == '\n' || s[n-1] == '\r') {
			s = s[:n-1]
		}
	}
	return s
}
