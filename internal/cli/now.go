package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidewave-io/tidewave/internal/daemon/server"
)

// queryNowPlaying asks the daemon over gRPC. Returns nil when the
// daemon is unreachable or does not serve the call.
func queryNowPlaying() *server.TrackInfo {
	conn, err := connectDaemon()
	if err != nil {
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	track, err := getNowPlaying(ctx, conn)
	if err != nil {
		return nil
	}
	return track
}

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Show the currently published track",
	RunE: func(cmd *cobra.Command, args []string) error {
		running, info, err := GetDaemonStatus()
		if err != nil {
			return err
		}
		if !running {
			fmt.Println("Daemon is not running.")
			return nil
		}

		track := queryNowPlaying()
		if track == nil {
			// The daemon mirrors its published track into daemon.yaml,
			// which covers daemons whose RPC surface is unavailable.
			track = &server.TrackInfo{}
			if info != nil && info.NowPlaying != nil {
				track.Title = info.NowPlaying.Title
				track.Artist = info.NowPlaying.Artist
				track.Album = info.NowPlaying.Album
				track.CoverArtURL = info.NowPlaying.CoverArtURL
			}
		}

		if track.Title == "" && track.Artist == "" {
			fmt.Println(styleHint.Render("Nothing playing."))
			return nil
		}

		fmt.Println(styleBrand.Render("Now playing"))
		fmt.Printf("  %s %s\n", styleLabel.Render("Title: "), styleValue.Render(track.Title))
		fmt.Printf("  %s %s\n", styleLabel.Render("Artist:"), styleValue.Render(track.Artist))
		if track.Album != "" {
			fmt.Printf("  %s %s\n", styleLabel.Render("Album: "), styleValue.Render(track.Album))
		}
		if track.CoverArtURL != "" {
			fmt.Printf("  %s %s\n", styleLabel.Render("Cover: "), styleValue.Render(track.CoverArtURL))
		}
		return nil
	},
}
