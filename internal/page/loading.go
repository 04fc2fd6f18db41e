package page

import (
	"sync"
	"time"
)

// Loading phases.
const (
	LoadingShowing   = "showing"
	LoadingFadingOut = "fading_out"
	LoadingHidden    = "hidden"
)

const (
	defaultMinDisplay   = 1000 * time.Millisecond
	defaultFadeDuration = 500 * time.Millisecond
)

// Loading enforces a minimum visible duration for the splash overlay. It is
// constructed before anything else so the start timestamp predates the rest
// of session setup; Hide then waits out whatever remains of the floor,
// plays the fade and removes the overlay.
type Loading struct {
	view  View
	exec  Exec
	start time.Time
	min   time.Duration
	fade  time.Duration

	mu    sync.Mutex
	phase string
	timer *time.Timer
}

// LoadingOption tunes a Loading controller.
type LoadingOption func(*Loading)

// WithLoadingDurations overrides the minimum display and fade durations.
func WithLoadingDurations(min, fade time.Duration) LoadingOption {
	return func(l *Loading) {
		l.min = min
		l.fade = fade
	}
}

// NewLoading records the construction time as the start of the display floor.
func NewLoading(view View, exec Exec, opts ...LoadingOption) *Loading {
	l := &Loading{
		view:  view,
		exec:  exec,
		start: time.Now(),
		min:   defaultMinDisplay,
		fade:  defaultFadeDuration,
		phase: LoadingShowing,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Phase returns the current lifecycle phase.
func (l *Loading) Phase() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.phase
}

// Hide schedules the fade-out. Called before the minimum display duration
// elapsed it waits out the remainder; called after, it fades immediately.
// Repeat calls are ignored.
func (l *Loading) Hide() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != LoadingShowing || l.timer != nil {
		return
	}

	remaining := l.min - time.Since(l.start)
	if remaining < 0 {
		remaining = 0
	}

	l.timer = time.AfterFunc(remaining, func() {
		l.exec.run(l.beginFade)
	})
}

// Close cancels any pending transition timers.
func (l *Loading) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.timer != nil {
		l.timer.Stop()
	}
}

func (l *Loading) beginFade() {
	l.mu.Lock()
	if l.phase != LoadingShowing {
		l.mu.Unlock()
		return
	}
	l.phase = LoadingFadingOut
	l.timer = time.AfterFunc(l.fade, func() {
		l.exec.run(l.finish)
	})
	l.mu.Unlock()

	l.view.AddClass(IDLoadingScreen, "fading")
}

func (l *Loading) finish() {
	l.mu.Lock()
	if l.phase != LoadingFadingOut {
		l.mu.Unlock()
		return
	}
	l.phase = LoadingHidden
	l.mu.Unlock()

	l.view.Remove(IDLoadingScreen)
	l.view.SetAttr(IDBody, "data-loaded", "true")
}
