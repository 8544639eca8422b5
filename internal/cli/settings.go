package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tidewave-io/tidewave/internal/config"
	"github.com/tidewave-io/tidewave/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		path, _ := config.GlobalSettingsFile()

		fmt.Println(styleBrand.Render("Tidewave settings") + " " + styleHint.Render("("+path+")"))
		fmt.Printf("  %s %s\n", styleLabel.Render("Application ID:  "), styleValue.Render(settings.Presence.ApplicationID))
		fmt.Printf("  %s %s\n", styleLabel.Render("Player match:    "), styleValue.Render(settings.Session.PlayerMatch))
		fmt.Printf("  %s %s\n", styleLabel.Render("Debounce:        "), styleValue.Render(fmt.Sprintf("%dms", settings.Session.DebounceMillis)))
		fmt.Printf("  %s %s\n", styleLabel.Render("Uploader:        "), styleValue.Render(settings.Artwork.Uploader))
		fmt.Printf("  %s %s\n", styleLabel.Render("Upload host:     "), styleValue.Render(settings.Artwork.Host))
		fmt.Printf("  %s %s\n", styleLabel.Render("Artwork expiry:  "), styleValue.Render(fmt.Sprintf("%d minutes", settings.Artwork.ExpiryMinutes)))
		return nil
	},
}

var configureCmd = &cobra.Command{
	Use:     "configure",
	Aliases: []string{"config"},
	Short:   "Configure Tidewave settings",
	Long: `Configure Tidewave settings interactively.

This allows you to modify:
  - Discord application ID
  - Player match string (which media sessions are mirrored)
  - Debounce delay
  - Cover art uploader (curl or http), host, and expiry

Press Enter to keep the current value for any setting.

A running daemon picks up saved changes without a restart.`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	changed := false

	// Application ID
	fmt.Printf("Discord application ID [%s]: ", settings.Presence.ApplicationID)
	appID, _ := reader.ReadString('\n')
	appID = strings.TrimSpace(appID)
	if appID != "" && appID != settings.Presence.ApplicationID {
		settings.Presence.ApplicationID = appID
		changed = true
	}

	// Player match
	fmt.Printf("Player match [%s]: ", settings.Session.PlayerMatch)
	match, _ := reader.ReadString('\n')
	match = strings.TrimSpace(match)
	if match != "" && match != settings.Session.PlayerMatch {
		settings.Session.PlayerMatch = match
		changed = true
	}

	// Debounce
	fmt.Printf("Debounce (ms) [%d]: ", settings.Session.DebounceMillis)
	debounce, _ := reader.ReadString('\n')
	debounce = strings.TrimSpace(debounce)
	if debounce != "" {
		ms, err := strconv.Atoi(debounce)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid debounce: %s (expected a positive number of milliseconds)", debounce)
		}
		if ms != settings.Session.DebounceMillis {
			settings.Session.DebounceMillis = ms
			changed = true
		}
	}

	// Uploader
	fmt.Printf("Uploader (curl/http) [%s]: ", settings.Artwork.Uploader)
	uploader, _ := reader.ReadString('\n')
	uploader = strings.TrimSpace(strings.ToLower(uploader))
	if uploader != "" {
		if uploader != models.UploaderCurl && uploader != models.UploaderHTTP {
			return fmt.Errorf("invalid uploader: %s (expected curl or http)", uploader)
		}
		if uploader != settings.Artwork.Uploader {
			settings.Artwork.Uploader = uploader
			changed = true
		}
	}

	// Upload host
	fmt.Printf("Upload host [%s]: ", settings.Artwork.Host)
	host, _ := reader.ReadString('\n')
	host = strings.TrimSpace(host)
	if host != "" && host != settings.Artwork.Host {
		settings.Artwork.Host = host
		changed = true
	}

	// Expiry
	fmt.Printf("Artwork expiry (minutes) [%d]: ", settings.Artwork.ExpiryMinutes)
	expiry, _ := reader.ReadString('\n')
	expiry = strings.TrimSpace(expiry)
	if expiry != "" {
		minutes, err := strconv.Atoi(expiry)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("invalid expiry: %s (expected a positive number of minutes)", expiry)
		}
		if minutes != settings.Artwork.ExpiryMinutes {
			settings.Artwork.ExpiryMinutes = minutes
			changed = true
		}
	}

	if !changed {
		fmt.Println("\nNo changes made.")
		return nil
	}

	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println("\nSettings updated. A running daemon will reload them.")
	return nil
}
