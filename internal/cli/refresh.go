package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force the daemon to republish the current track",
	RunE: func(cmd *cobra.Command, args []string) error {
		running, info, err := GetDaemonStatus()
		if err != nil {
			return err
		}
		if !running || info == nil {
			fmt.Println("Daemon is not running.")
			return nil
		}

		if conn, err := connectDaemon(); err == nil {
			defer conn.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := requestForceUpdate(ctx, conn); err == nil {
				fmt.Println("Force update requested.")
				return nil
			}
		}

		// Fall back to the daemon's signal interface.
		if err := forceUpdateSignal(info.PID); err != nil {
			return fmt.Errorf("failed to request force update: %w", err)
		}
		fmt.Println("Force update requested.")
		return nil
	},
}
