package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context that is canceled on SIGINT or
// SIGTERM. Call stop to release the signal registration.
func SetupSignalHandler(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// ReloadSignal returns a channel receiving SIGHUP, used to reload the
// configuration on demand.
func ReloadSignal() (<-chan os.Signal, func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP)
	return sigChan, func() { signal.Stop(sigChan) }
}
