package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignals stop the daemon: Ctrl+C, termination requests, and
// terminal hangups.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// waitForShutdown blocks until a shutdown signal arrives or ctx is
// cancelled. Returns the received signal, or nil on cancellation.
func waitForShutdown(ctx context.Context) os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, shutdownSignals...)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		return sig
	case <-ctx.Done():
		return nil
	}
}
