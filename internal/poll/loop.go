// Package poll watches the clipboard for new questions and answers them in
// the background, one at a time.
package poll

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/clipask/clipask/internal/clipboard"
	"github.com/clipask/clipask/internal/proxy"
)

const (
	// DefaultInterval is the pause between clipboard reads.
	DefaultInterval = 500 * time.Millisecond
	// DefaultCooldown is the pause after a question is accepted.
	DefaultCooldown = 2 * time.Second
	// DefaultErrorBackoff is the pause after a failed poll iteration.
	DefaultErrorBackoff = 1 * time.Second
	// DefaultMinQuestionLength is the shortest text, in runes, that counts
	// as a question.
	DefaultMinQuestionLength = 5
)

// Clipboard is the part of clipboard.Port the loop uses.
type Clipboard interface {
	Read(ctx context.Context) clipboard.Snapshot
	Write(ctx context.Context, text string) bool
}

// Asker fetches an answer. Errors are expected to be *proxy.APIError.
type Asker interface {
	Ask(ctx context.Context, prompt string) (proxy.Answer, error)
}

// Question is accepted clipboard text awaiting an answer.
type Question struct {
	ID   string
	Text string
}

// Reporter receives user-facing progress for each question. Calls come from
// the background fetch goroutine.
type Reporter interface {
	Dispatched(q Question)
	Answered(q Question, a proxy.Answer, copied bool)
	Failed(q Question, err error)
}

// Options configures a Loop. Zero values select the defaults.
type Options struct {
	Interval          time.Duration
	Cooldown          time.Duration
	ErrorBackoff      time.Duration
	MinQuestionLength int

	// IgnoreOwnAnswers stops an answer the loop wrote to the clipboard from
	// being accepted as the next question. Off by default: a long enough
	// answer is asked in turn, like any other new clipboard text.
	IgnoreOwnAnswers bool

	Reporter Reporter
	Logger   *slog.Logger
}

// Loop is the polling state machine. Run and RunOnce must be called from a
// single goroutine; only inFlight and the written handoff are shared with
// the fetch goroutine.
type Loop struct {
	clip  Clipboard
	asker Asker
	opts  Options

	// Owned by the polling goroutine.
	lastAccepted string
	lastWritten  string

	inFlight atomic.Bool
	written  chan string
	tasks    errgroup.Group
	logger   *slog.Logger
}

// New creates a Loop reading and writing clip and answering with asker.
func New(clip Clipboard, asker Asker, opts Options) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = DefaultErrorBackoff
	}
	if opts.MinQuestionLength <= 0 {
		opts.MinQuestionLength = DefaultMinQuestionLength
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Loop{
		clip:    clip,
		asker:   asker,
		opts:    opts,
		written: make(chan string, 1),
		logger:  logger,
	}
	l.tasks.SetLimit(1)
	return l
}

// InFlight reports whether a fetch is running.
func (l *Loop) InFlight() bool {
	return l.inFlight.Load()
}

// Wait blocks until the running fetch, if any, has finished. It must not be
// called concurrently with Run or RunOnce.
func (l *Loop) Wait() {
	_ = l.tasks.Wait()
}

// Run records the current clipboard text as already seen, then polls until
// ctx is cancelled. Cancellation does not interrupt a running fetch.
func (l *Loop) Run(ctx context.Context) error {
	l.lastAccepted = l.clip.Read(ctx).Text
	l.logger.Info("watching clipboard",
		"interval", l.opts.Interval,
		"cooldown", l.opts.Cooldown,
		"min_question_length", l.opts.MinQuestionLength)

	for {
		if ctx.Err() != nil {
			return nil
		}

		delay := l.opts.Interval
		accepted, err := l.RunOnce(ctx)
		switch {
		case err != nil:
			l.logger.Error("poll iteration failed", "error", err)
			delay = l.opts.ErrorBackoff
		case accepted:
			delay = l.opts.Cooldown
		}

		select {
		case <-ctx.Done():
			l.logger.Debug("poll loop stopped")
			return nil
		case <-time.After(delay):
		}
	}
}

// RunOnce reads the clipboard once and dispatches a fetch if the text
// qualifies. It returns true when a fetch was dispatched. A panic during the
// iteration is recovered and returned as an error.
func (l *Loop) RunOnce(ctx context.Context) (accepted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			accepted, err = false, fmt.Errorf("poll iteration panicked: %v", r)
		}
	}()

	// Sampled before the handoff is drained: a fetch that finished before
	// this point has already delivered what it wrote.
	busy := l.inFlight.Load()
	l.drainWritten()

	text := l.clip.Read(ctx).Text
	// A failed read yields "", which must not forget the written answer.
	if text != "" && text != l.lastWritten {
		l.lastWritten = ""
	}

	if busy || !l.qualifies(text) {
		return false, nil
	}

	q := Question{ID: uuid.NewString(), Text: text}
	fetchCtx := context.WithoutCancel(ctx)

	l.inFlight.Store(true)
	if !l.tasks.TryGo(func() error {
		l.fetch(fetchCtx, q)
		return nil
	}) {
		// The previous fetch cleared its flag but has not returned yet.
		l.inFlight.Store(false)
		return false, nil
	}

	l.lastAccepted = text
	l.logger.Debug("question accepted", "question_id", q.ID, "len", len(text))
	return true, nil
}

func (l *Loop) qualifies(text string) bool {
	if l.opts.IgnoreOwnAnswers && text == l.lastWritten {
		return false
	}
	return text != l.lastAccepted &&
		utf8.RuneCountInString(text) >= l.opts.MinQuestionLength
}

func (l *Loop) drainWritten() {
	select {
	case s := <-l.written:
		l.lastWritten = s
	default:
	}
}

// handoff passes the text just written to the polling goroutine so the loop
// does not treat its own answer as a new question.
func (l *Loop) handoff(text string) {
	select {
	case <-l.written:
	default:
	}
	l.written <- text
}

func (l *Loop) fetch(ctx context.Context, q Question) {
	defer l.inFlight.Store(false)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("answer fetch panicked: %v", r)
			l.logger.Error("answer fetch failed", "question_id", q.ID, "error", err)
			l.opts.Reporter.Failed(q, err)
		}
	}()

	l.opts.Reporter.Dispatched(q)
	start := time.Now()

	ans, err := l.asker.Ask(ctx, q.Text)
	if err != nil {
		l.logger.Warn("answer fetch failed", "question_id", q.ID, "error", err, "elapsed", time.Since(start))
		l.opts.Reporter.Failed(q, err)
		return
	}

	copied := l.clip.Write(ctx, ans.Content)
	if copied && l.opts.IgnoreOwnAnswers {
		l.handoff(ans.Content)
	}
	l.logger.Debug("answer fetched", "question_id", q.ID, "len", len(ans.Content), "copied", copied, "elapsed", time.Since(start))
	l.opts.Reporter.Answered(q, ans, copied)
}

type nopReporter struct{}

func (nopReporter) Dispatched(Question) {}
func (nopReporter) Answered(Question, proxy.Answer, bool) {}
func (nopReporter) Failed(Question, error) {}
