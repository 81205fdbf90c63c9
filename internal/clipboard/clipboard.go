// Package clipboard reads and writes the system clipboard through
// platform-specific backends chosen once at startup.
package clipboard

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Backend is the per-platform clipboard capability.
type Backend interface {
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, text string) error
	Name() string
}

// Snapshot is the clipboard text observed at a point in time.
type Snapshot struct {
	Text       string
	ObservedAt time.Time
}

// Port adapts a Backend to the pipeline's contract: reads never fail and
// writes are best effort.
type Port struct {
	backend Backend
	now     func() time.Time
	logger  *slog.Logger
}

// NewPort wraps b. A nil logger uses slog.Default().
func NewPort(b Backend, logger *slog.Logger) *Port {
	if logger == nil {
		logger = slog.Default()
	}
	return &Port{backend: b, now: time.Now, logger: logger}
}

// Read returns the current clipboard text, trimmed of surrounding whitespace.
// Any backend failure yields an empty snapshot.
func (p *Port) Read(ctx context.Context) Snapshot {
	text, err := p.backend.ReadText(ctx)
	if err != nil {
		p.logger.Debug("clipboard read failed", "backend", p.backend.Name(), "error", err)
		text = ""
	}
	return Snapshot{Text: strings.TrimSpace(text), ObservedAt: p.now()}
}

// Write copies text to the clipboard and reports whether it succeeded.
// Failures are logged, never returned.
func (p *Port) Write(ctx context.Context, text string) bool {
	if err := p.backend.WriteText(ctx, text); err != nil {
		p.logger.Warn("clipboard write failed", "backend", p.backend.Name(), "error", err)
		return false
	}
	p.logger.Debug("clipboard write", "backend", p.backend.Name(), "len", len(text))
	return true
}
