package cli

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/tidewave-io/tidewave/internal/config"
	"github.com/tidewave-io/tidewave/internal/daemon/server"
)

// connectDaemon establishes a gRPC connection to the running daemon.
func connectDaemon() (*grpc.ClientConn, error) {
	info, err := config.LoadDaemonInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to load daemon info: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("daemon not running")
	}

	addr := fmt.Sprintf("%s:%d", info.Host, info.Port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}

	return conn, nil
}

// getNowPlaying asks the daemon for the currently published track.
func getNowPlaying(ctx context.Context, conn *grpc.ClientConn) (*server.TrackInfo, error) {
	var track server.TrackInfo
	err := conn.Invoke(ctx, "/tidewave.DaemonService/GetNowPlaying", &emptypb.Empty{}, &track)
	if err != nil {
		return nil, err
	}
	return &track, nil
}

// requestForceUpdate asks the daemon to republish the current track.
func requestForceUpdate(ctx context.Context, conn *grpc.ClientConn) error {
	return conn.Invoke(ctx, "/tidewave.DaemonService/ForceUpdate", &emptypb.Empty{}, &emptypb.Empty{})
}
