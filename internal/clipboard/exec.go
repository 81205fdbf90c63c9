package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// writeWaitDelay bounds how long a write waits for I/O after the utility
// has exited.
const writeWaitDelay = time.Second

// commandRunner runs clipboard utilities. Tests substitute a fake.
type commandRunner interface {
	LookPath(name string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	RunWithInput(ctx context.Context, input, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, commandError(name, err, stderr.String())
	}
	return out, nil
}

// RunWithInput leaves stdout and stderr unset. xclip, xsel and wl-copy fork a
// child that keeps serving the selection; a captured stream would be held
// open by that child and Wait would block until another program takes the
// clipboard.
func (execRunner) RunWithInput(ctx context.Context, input, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.WaitDelay = writeWaitDelay
	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		// The utility exited cleanly; only the stdin copy was cut short.
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

func commandError(name string, err error, stderr string) error {
	if s := strings.TrimSpace(stderr); s != "" {
		return fmt.Errorf("%s failed: %w: %s", name, err, s)
	}
	return fmt.Errorf("%s failed: %w", name, err)
}
