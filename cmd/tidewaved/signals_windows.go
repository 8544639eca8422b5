//go:build windows

package main

import "context"

// notifyForceUpdate is a no-op on windows; forced cycles come from the
// tray menu or the gRPC ForceUpdate call instead.
func notifyForceUpdate(ctx context.Context, force func()) {
	<-ctx.Done()
}
