package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidewave-io/tidewave/internal/models"
)

func TestSaveAndLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	want := models.NewSettings()
	want.Session.PlayerMatch = "TIDAL"
	want.Session.DebounceMillis = 450
	want.Artwork.Uploader = models.UploaderHTTP

	if err := SaveYAML(path, want); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}

	var got models.Settings
	if err := LoadYAML(path, &got); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}

	if got.Session.PlayerMatch != "TIDAL" {
		t.Errorf("PlayerMatch = %q", got.Session.PlayerMatch)
	}
	if got.Session.DebounceMillis != 450 {
		t.Errorf("DebounceMillis = %d", got.Session.DebounceMillis)
	}
	if got.Artwork.Uploader != models.UploaderHTTP {
		t.Errorf("Uploader = %q", got.Artwork.Uploader)
	}
}

func TestLoadYAMLOrDefault(t *testing.T) {
	dir := t.TempDir()

	// Missing file returns defaults.
	missing := filepath.Join(dir, "settings.yaml")
	settings, err := LoadYAMLOrDefault(missing, models.NewSettings)
	if err != nil {
		t.Fatalf("LoadYAMLOrDefault (missing): %v", err)
	}
	if settings.Session.PlayerMatch != "TIDAL" {
		t.Errorf("default PlayerMatch = %q", settings.Session.PlayerMatch)
	}
	if settings.Artwork.Host != "http://0x0.st" {
		t.Errorf("default Host = %q", settings.Artwork.Host)
	}

	// Existing file wins over defaults.
	existing := filepath.Join(dir, "custom.yaml")
	custom := models.NewSettings()
	custom.Session.PlayerMatch = "SomePlayer"
	if err := SaveYAML(existing, custom); err != nil {
		t.Fatalf("SaveYAML: %v", err)
	}
	settings, err = LoadYAMLOrDefault(existing, models.NewSettings)
	if err != nil {
		t.Fatalf("LoadYAMLOrDefault (existing): %v", err)
	}
	if settings.Session.PlayerMatch != "SomePlayer" {
		t.Errorf("PlayerMatch = %q, want SomePlayer", settings.Session.PlayerMatch)
	}

	// Malformed file is an error, not a silent default.
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("{not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadYAMLOrDefault(broken, models.NewSettings); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
