// Package server implements the gRPC server for the daemon.
package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"syscall"

	"google.golang.org/grpc"

	"github.com/tidewave-io/tidewave/internal/daemon/coordinator"
	"github.com/tidewave-io/tidewave/internal/models"
)

// Server is the daemon's gRPC server.
type Server struct {
	grpcServer  *grpc.Server
	listener    net.Listener
	port        int
	coordinator *coordinator.Coordinator
	forceUpdate func()
	updateState UpdateState
}

// New creates a new server listening on the specified port.
// Pass port 0 for dynamic allocation. forceUpdate triggers a forced
// presence cycle outside the gRPC goroutine.
func New(port int, coord *coordinator.Coordinator, forceUpdate func()) (*Server, error) {
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	// Get actual port if dynamically allocated
	actualPort := listener.Addr().(*net.TCPAddr).Port

	grpcServer := grpc.NewServer()

	srv := &Server{
		grpcServer:  grpcServer,
		listener:    listener,
		port:        actualPort,
		coordinator: coord,
		forceUpdate: forceUpdate,
	}

	// Register services
	RegisterDaemonServiceServer(grpcServer, &daemonService{server: srv})

	srv.startUpdateCheck()

	return srv, nil
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	return s.grpcServer.Serve(s.listener)
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

// TrayState adapts a Server to the tray.DaemonState interface.
type TrayState struct {
	srv *Server
}

// NewTrayState creates a TrayState for the given server.
func NewTrayState(srv *Server) *TrayState {
	return &TrayState{srv: srv}
}

// Port returns the port the server is listening on.
func (t *TrayState) Port() int {
	return t.srv.Port()
}

// NowPlaying returns the currently published track.
func (t *TrayState) NowPlaying() models.TrackSnapshot {
	return t.srv.coordinator.NowPlaying()
}

// ForceUpdate triggers a forced presence cycle.
func (t *TrayState) ForceUpdate() {
	t.srv.forceUpdate()
}

// RequestShutdown sends SIGINT to the current process to trigger a graceful shutdown.
func (t *TrayState) RequestShutdown() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}
