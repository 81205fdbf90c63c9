package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"
)

type call struct {
	name  string
	args  []string
	input string
}

// fakeRunner simulates clipboard utilities. Binaries missing from paths are
// not found; binaries listed in failing exit non-zero.
type fakeRunner struct {
	mu      sync.Mutex
	paths   map[string]bool
	failing map[string]bool
	output  string
	calls   []call
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.paths[name] {
		return name, nil
	}
	return "", exec.ErrNotFound
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{name: name, args: args})
	if f.failing[name] {
		return nil, fmt.Errorf("%s failed: exit status 1", name)
	}
	return []byte(f.output), nil
}

func (f *fakeRunner) RunWithInput(_ context.Context, input, name string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{name: name, args: args, input: input})
	if f.failing[name] {
		return fmt.Errorf("%s failed: exit status 1", name)
	}
	f.output = input
	return nil
}

func noEnv(string) string { return "" }

func TestDetect_SelectsBackendPerPlatform(t *testing.T) {
	run := &fakeRunner{}
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "*clipboard.darwinBackend"},
		{"windows", "*clipboard.windowsBackend"},
		{"linux", "*clipboard.linuxBackend"},
		{"freebsd", "*clipboard.linuxBackend"},
	}
	for _, tt := range tests {
		got := fmt.Sprintf("%T", detectWith(tt.goos, run, noEnv))
		if got != tt.want {
			t.Errorf("detect(%q) = %s, want %s", tt.goos, got, tt.want)
		}
	}
}

func TestDarwinBackend(t *testing.T) {
	run := &fakeRunner{output: "copied text\n"}
	b := &darwinBackend{run: run}

	got, err := b.ReadText(context.Background())
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != "copied text\n" {
		t.Errorf("ReadText = %q", got)
	}

	if err := b.WriteText(context.Background(), "answer"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	last := run.calls[len(run.calls)-1]
	if last.name != "pbcopy" || last.input != "answer" {
		t.Errorf("last call = %+v, want pbcopy with input", last)
	}
}

func TestLinuxBackend_PrefersXclip(t *testing.T) {
	run := &fakeRunner{paths: map[string]bool{"xclip": true, "xsel": true}, output: "hello"}
	b := newLinuxBackend(run, noEnv)

	if _, err := b.ReadText(context.Background()); err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if run.calls[0].name != "xclip" {
		t.Errorf("first call = %q, want xclip", run.calls[0].name)
	}
	if got := strings.Join(run.calls[0].args, " "); got != "-selection clipboard -o" {
		t.Errorf("xclip args = %q", got)
	}
}

func TestLinuxBackend_FallsBackToXsel(t *testing.T) {
	run := &fakeRunner{
		paths:   map[string]bool{"xclip": true, "xsel": true},
		failing: map[string]bool{"xclip": true},
	}
	b := newLinuxBackend(run, noEnv)

	if err := b.WriteText(context.Background(), "fallback"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	last := run.calls[len(run.calls)-1]
	if last.name != "xsel" || last.input != "fallback" {
		t.Errorf("last call = %+v, want xsel with input", last)
	}
}

func TestLinuxBackend_MissingXclipUsesXsel(t *testing.T) {
	run := &fakeRunner{paths: map[string]bool{"xsel": true}, output: "from xsel"}
	b := newLinuxBackend(run, noEnv)

	got, err := b.ReadText(context.Background())
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != "from xsel" {
		t.Errorf("ReadText = %q, want %q", got, "from xsel")
	}
	if len(run.calls) != 1 || run.calls[0].name != "xsel" {
		t.Errorf("calls = %+v, want only xsel", run.calls)
	}
}

func TestLinuxBackend_WaylandFirst(t *testing.T) {
	run := &fakeRunner{paths: map[string]bool{"wl-paste": true, "xclip": true}, output: "wl"}
	env := func(k string) string {
		if k == "WAYLAND_DISPLAY" {
			return "wayland-0"
		}
		return ""
	}
	b := newLinuxBackend(run, env)

	if _, err := b.ReadText(context.Background()); err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if run.calls[0].name != "wl-paste" {
		t.Errorf("first call = %q, want wl-paste", run.calls[0].name)
	}
}

func TestLinuxBackend_NoUtility(t *testing.T) {
	b := newLinuxBackend(&fakeRunner{}, noEnv)

	_, err := b.ReadText(context.Background())
	if err == nil {
		t.Fatal("expected error with no utilities installed")
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error = %v, want it to wrap exec.ErrNotFound", err)
	}
}

func TestWindowsBackend(t *testing.T) {
	var written string
	b := &windowsBackend{
		readAll:  func() (string, error) { return "from win32", nil },
		writeAll: func(s string) error { written = s; return nil },
	}

	got, err := b.ReadText(context.Background())
	if err != nil || got != "from win32" {
		t.Errorf("ReadText = %q, %v", got, err)
	}
	if err := b.WriteText(context.Background(), "answer"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if written != "answer" {
		t.Errorf("written = %q, want answer", written)
	}
}

type stubBackend struct {
	text     string
	readErr  error
	writeErr error
	written  []string
}

func (s *stubBackend) Name() string { return "stub" }
func (s *stubBackend) ReadText(context.Context) (string, error) {
	return s.text, s.readErr
}
func (s *stubBackend) WriteText(_ context.Context, text string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.written = append(s.written, text)
	return nil
}

func TestPort_ReadTrimsAndStamps(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p := NewPort(&stubBackend{text: "  What is 2+2?\r\n"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.now = func() time.Time { return fixed }

	snap := p.Read(context.Background())
	if snap.Text != "What is 2+2?" {
		t.Errorf("Text = %q", snap.Text)
	}
	if !snap.ObservedAt.Equal(fixed) {
		t.Errorf("ObservedAt = %v, want %v", snap.ObservedAt, fixed)
	}
}

func TestPort_ReadFailureIsEmpty(t *testing.T) {
	p := NewPort(&stubBackend{text: "stale", readErr: errors.New("no display")}, nil)

	if snap := p.Read(context.Background()); snap.Text != "" {
		t.Errorf("Text = %q, want empty on failure", snap.Text)
	}
}

func TestPort_WriteFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	p := NewPort(&stubBackend{writeErr: errors.New("xclip missing")}, slog.New(slog.NewTextHandler(&buf, nil)))

	if p.Write(context.Background(), "answer") {
		t.Error("Write reported success on backend failure")
	}
	if !strings.Contains(buf.String(), "xclip missing") {
		t.Errorf("log = %q, want it to mention the failure", buf.String())
	}
}

func TestPort_Write(t *testing.T) {
	b := &stubBackend{}
	p := NewPort(b, nil)

	if !p.Write(context.Background(), "4") {
		t.Fatal("Write reported failure")
	}
	if len(b.written) != 1 || b.written[0] != "4" {
		t.Errorf("written = %v, want [4]", b.written)
	}
}
