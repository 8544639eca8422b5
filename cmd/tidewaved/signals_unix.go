//go:build !windows

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// notifyForceUpdate triggers a forced presence cycle on SIGUSR1.
func notifyForceUpdate(ctx context.Context, force func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	defer signal.Stop(ch)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			log.Println("Force update requested via SIGUSR1")
			force()
		}
	}
}
