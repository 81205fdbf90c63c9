package daemon

import (
	"context"
	"fmt"
	"io"

	"github.com/clipask/clipask/internal/poll"
	"github.com/clipask/clipask/internal/proxy"
)

// SetupError is a failure that prevents the watcher from starting: missing
// configuration or a failed connectivity probe.
type SetupError struct {
	Reason string
	Cause  error
}

func (e *SetupError) Error() string {
	if e.Cause == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
}

func (e *SetupError) Unwrap() error { return e.Cause }

// EnsureReady sends one probe question and fails if the service does not
// answer it. Progress is written to w.
func EnsureReady(ctx context.Context, asker poll.Asker, w io.Writer) error {
	fmt.Fprintln(w, "api: testing connection...")
	ans, err := asker.Ask(ctx, proxy.ProbePrompt)
	if err != nil {
		return &SetupError{Reason: "API connection test failed", Cause: err}
	}
	fmt.Fprintf(w, "api: ready (probe answered %q)\n", ans.Content)
	return nil
}
