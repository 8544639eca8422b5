package server

import (
	"context"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/tidewave-io/tidewave/internal/config"
)

// ============================================================================
// gRPC Service Definitions (inline since proto generation not yet available)
// ============================================================================

// DaemonServiceServer is the server interface for DaemonService.
type DaemonServiceServer interface {
	GetStatus(context.Context, *emptypb.Empty) (*DaemonStatus, error)
	GetNowPlaying(context.Context, *emptypb.Empty) (*TrackInfo, error)
	ForceUpdate(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Shutdown(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// ============================================================================
// Message Types
// ============================================================================

// RequestMeta contains metadata about the client making a request.
type RequestMeta struct {
	Origin   string
	ClientID string
	Version  string
}

// DaemonStatus represents the current status of the daemon.
type DaemonStatus struct {
	Host        string
	Port        int32
	Pid         int32
	StartedAt   *timestamppb.Timestamp
	PlayerMatch string
	Playing     bool
}

// TrackInfo represents the currently published track.
type TrackInfo struct {
	Title       string
	Artist      string
	Album       string
	CoverArtURL string
}

// ============================================================================
// Service Registration Functions
// ============================================================================

// RegisterDaemonServiceServer registers the DaemonServiceServer with the gRPC server.
func RegisterDaemonServiceServer(s *grpc.Server, srv DaemonServiceServer) {
	// In real implementation, this would use generated code from protoc
}

// ============================================================================
// Service Implementations
// ============================================================================

type daemonService struct {
	server *Server
}

func (s *daemonService) GetStatus(ctx context.Context, _ *emptypb.Empty) (*DaemonStatus, error) {
	info, err := config.LoadDaemonInfo()
	if err != nil {
		return nil, err
	}

	track := s.server.coordinator.NowPlaying()

	status := &DaemonStatus{
		Host:      info.Host,
		Port:      int32(info.Port),
		Pid:       int32(info.PID),
		StartedAt: timestamppb.New(info.StartedAt),
		Playing:   !track.IsZero(),
	}
	if settings, err := config.LoadSettings(); err == nil {
		status.PlayerMatch = settings.Session.PlayerMatch
	}
	return status, nil
}

func (s *daemonService) GetNowPlaying(ctx context.Context, _ *emptypb.Empty) (*TrackInfo, error) {
	track := s.server.coordinator.NowPlaying()
	return &TrackInfo{
		Title:       track.Title,
		Artist:      track.Artist,
		Album:       track.Album,
		CoverArtURL: track.CoverArtURL,
	}, nil
}

func (s *daemonService) ForceUpdate(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.server.forceUpdate()
	return &emptypb.Empty{}, nil
}

func (s *daemonService) Shutdown(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	// Signal shutdown - this will be caught by the main loop
	go func() {
		time.Sleep(100 * time.Millisecond)
		p, _ := os.FindProcess(os.Getpid())
		_ = p.Signal(os.Interrupt)
	}()
	return &emptypb.Empty{}, nil
}
