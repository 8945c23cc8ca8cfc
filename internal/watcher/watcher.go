package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/juststeveking/netwatch/internal/elapsed"
	"github.com/juststeveking/netwatch/internal/tracker"
)

// Checker produces one aggregated connectivity reading
type Checker interface {
	CheckIsUp(ctx context.Context) bool
}

// LineWriter persists operator-facing lines
type LineWriter interface {
	AppendLine(message string) error
	AppendState(message string, up bool) error
}

// Watcher drives the polling loop and owns the connectivity tracker
type Watcher struct {
	checker   Checker
	lines     LineWriter
	durations *elapsed.Humanizer
	interval  time.Duration
	tracker   *tracker.Tracker

	now     func() time.Time
	after   func(time.Duration) <-chan time.Time
	log     *slog.Logger
	onEvent func(tracker.Event)
}

// Option customises a Watcher
type Option func(*Watcher)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		w.now = now
	}
}

// WithAfterFunc overrides the delay primitive between cycles
func WithAfterFunc(fn func(time.Duration) <-chan time.Time) Option {
	return func(w *Watcher) {
		w.after = fn
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) {
		w.log = log
	}
}

// WithEventHook registers a callback invoked for every tracker event
func WithEventHook(fn func(tracker.Event)) Option {
	return func(w *Watcher) {
		w.onEvent = fn
	}
}

// New creates a Watcher. The tracker starts Unknown at the watcher's clock.
func New(checker Checker, lines LineWriter, durations *elapsed.Humanizer, interval time.Duration, opts ...Option) (*Watcher, error) {
	if checker == nil {
		return nil, fmt.Errorf("checker must not be nil")
	}
	if lines == nil {
		return nil, fmt.Errorf("line writer must not be nil")
	}
	if durations == nil {
		return nil, fmt.Errorf("duration humanizer must not be nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", interval)
	}

	w := &Watcher{
		checker:   checker,
		lines:     lines,
		durations: durations,
		interval:  interval,
		now:       time.Now,
		after:     time.After,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.tracker = tracker.New(w.now())

	return w, nil
}

// Run polls until ctx is cancelled, then writes the shutdown line.
// Cancellation is honoured between cycles; a cycle in flight completes first.
func (w *Watcher) Run(ctx context.Context) {
	cycleCtx := context.WithoutCancel(ctx)

	for {
		w.Cycle(cycleCtx)

		select {
		case <-ctx.Done():
			w.Shutdown()
			return
		default:
		}

		select {
		case <-ctx.Done():
			w.Shutdown()
			return
		case <-w.after(w.interval):
		}
	}
}

// Cycle takes one reading and logs the resulting event, if any.
// A panic inside the cycle is reported and swallowed.
func (w *Watcher) Cycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			w.log.Error("connectivity check failed", "panic", rec)
		}
	}()

	up := w.checker.CheckIsUp(ctx)

	event, changed := w.tracker.Observe(up, w.now())
	if !changed {
		return
	}

	if w.onEvent != nil {
		w.onEvent(event)
	}

	// write failures are reported by the line writer; polling continues
	_ = w.lines.AppendState(w.message(event), event.State == tracker.StateUp)
}

// Shutdown writes the final summary line and waits for it to be persisted
func (w *Watcher) Shutdown() error {
	state := w.tracker.State()
	message := fmt.Sprintf("Exiting internet connection checker, internet is %s (for %s)",
		state, w.durations.Format(w.tracker.Elapsed(w.now())))

	if state == tracker.StateUnknown {
		return w.lines.AppendLine(message)
	}
	return w.lines.AppendState(message, state == tracker.StateUp)
}

// State returns the current tracker state
func (w *Watcher) State() tracker.State {
	return w.tracker.State()
}

func (w *Watcher) message(event tracker.Event) string {
	switch event.Kind {
	case tracker.EventStarted:
		return fmt.Sprintf("Starting internet connection checker (check interval: %ss), internet is %s",
			formatSeconds(w.interval), event.State)
	case tracker.EventCameUp:
		return fmt.Sprintf("UP (was down for %s)", w.durations.Format(event.Elapsed))
	default:
		return fmt.Sprintf("DOWN (was up for %s)", w.durations.Format(event.Elapsed))
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
