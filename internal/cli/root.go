// Package cli implements the tidewave CLI commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tidewave",
	Short: "Show your TIDAL listening activity on Discord",
	Long: `Tidewave mirrors what you are playing in TIDAL to Discord Rich
Presence, including uploaded cover art. The tidewaved daemon watches the
system media session and keeps your presence in sync.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(nowCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}
