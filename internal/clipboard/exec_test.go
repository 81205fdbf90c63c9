//go:build !windows

package clipboard

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_WriteDoesNotWaitForForkedChild(t *testing.T) {
	requireShell(t)

	// Mimics xclip -i: consume stdin, leave a background child serving
	// the selection, exit 0.
	start := time.Now()
	err := execRunner{}.RunWithInput(context.Background(), "answer",
		"sh", "-c", "cat >/dev/null; (sleep 3) & exit 0")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("RunWithInput: %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("RunWithInput took %v, want it to return when the utility exits", elapsed)
	}
}

func TestExecRunner_WriteFailure(t *testing.T) {
	requireShell(t)

	err := execRunner{}.RunWithInput(context.Background(), "answer", "sh", "-c", "cat >/dev/null; exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Errorf("err = %v, want exit status 3", err)
	}
}

func TestExecRunner_ReadOutput(t *testing.T) {
	requireShell(t)

	out, err := execRunner{}.Output(context.Background(), "sh", "-c", "printf 'copied'; echo oops >&2")
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if string(out) != "copied" {
		t.Errorf("Output = %q, want %q", out, "copied")
	}
}
