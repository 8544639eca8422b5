package cli

import (
	"github.com/spf13/cobra"

	"github.com/tidewave-io/tidewave/internal/config"
	"github.com/tidewave-io/tidewave/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the daemon log console",
	Long: `Open an interactive console showing daemon status, the currently
published track, and a live tail of the daemon log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(func() {
			_, info, err := config.IsDaemonRunning()
			if err != nil || info == nil {
				return
			}
			_ = forceUpdateSignal(info.PID)
		})
	},
}
