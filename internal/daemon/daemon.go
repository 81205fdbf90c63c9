// Package daemon wires the clipboard, the answer client and the poll loop
// into a running watcher.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/clipask/clipask/internal/poll"
)

// DefaultShutdownGrace bounds how long Run waits for an in-flight fetch
// after the stop signal.
const DefaultShutdownGrace = 5 * time.Second

// Deps are the collaborators Run needs.
type Deps struct {
	Asker         poll.Asker
	Clipboard     poll.Clipboard
	Options       poll.Options
	Out           io.Writer
	ShutdownGrace time.Duration
	Logger        *slog.Logger
}

// Run probes the service, then watches the clipboard until ctx is
// cancelled. A failed probe is returned as *SetupError and the loop is never
// started. After cancellation Run waits up to ShutdownGrace for an in-flight
// fetch before returning nil.
func Run(ctx context.Context, d Deps) error {
	if d.Asker == nil || d.Clipboard == nil {
		return &SetupError{Reason: "daemon", Cause: errors.New("asker and clipboard are required")}
	}
	if d.Out == nil {
		d.Out = io.Discard
	}
	if d.ShutdownGrace <= 0 {
		d.ShutdownGrace = DefaultShutdownGrace
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if d.Options.Logger == nil {
		d.Options.Logger = logger
	}

	if err := EnsureReady(ctx, d.Asker, d.Out); err != nil {
		if ctx.Err() != nil {
			logger.Info("stopped during startup")
			return nil
		}
		return err
	}

	fmt.Fprintln(d.Out, "watching: clipboard (Ctrl+C to stop)")
	loop := poll.New(d.Clipboard, d.Asker, d.Options)
	if err := loop.Run(ctx); err != nil {
		return err
	}

	if !loop.InFlight() {
		loop.Wait()
		return nil
	}

	logger.Info("waiting for in-flight answer", "grace", d.ShutdownGrace)
	done := make(chan struct{})
	go func() {
		loop.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d.ShutdownGrace):
		logger.Warn("shutdown grace expired with an answer still in flight")
	}
	return nil
}
