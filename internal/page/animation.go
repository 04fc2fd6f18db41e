package page

import (
	"sync"
	"time"

	"github.com/RESA9399/emberfall/internal/events"
	"github.com/RESA9399/emberfall/internal/util"
)

const (
	fadeVisibleFraction = 0.1
	fadeBottomMargin    = 50 // px trigger zone below the viewport
	fadeStaggerStep     = 100 * time.Millisecond

	counterDuration = 2000 * time.Millisecond
	counterTick     = 16 * time.Millisecond
)

// Animation reveals fade-in groups once they scroll into view and runs the
// one-shot numeric counter animations. Both trigger at most once per
// element; triggered observers detach themselves.
type Animation struct {
	view     View
	exec     Exec
	digits   *util.DigitFormatter
	groups   map[string][]FadeElem
	counters []CounterElem

	stagger     time.Duration
	counterSpan time.Duration
	counterStep time.Duration

	mu       sync.Mutex
	revealed map[string]bool // fade group name
	counting map[string]bool // counter element id
	timers   []*time.Timer
	closed   bool
	unsub    func()
}

// AnimationOption tunes an Animation controller.
type AnimationOption func(*Animation)

// WithAnimationTiming overrides the stagger step and counter timings.
func WithAnimationTiming(stagger, counterSpan, counterStep time.Duration) AnimationOption {
	return func(a *Animation) {
		a.stagger = stagger
		a.counterSpan = counterSpan
		a.counterStep = counterStep
	}
}

// NewAnimation wires the animation controller and evaluates the initial
// viewport position so above-the-fold elements reveal without scrolling.
func NewAnimation(bus *events.Bus, view View, exec Exec, digits *util.DigitFormatter, hello Hello, opts ...AnimationOption) *Animation {
	a := &Animation{
		view:        view,
		exec:        exec,
		digits:      digits,
		groups:      hello.FadeGroups,
		counters:    hello.Counters,
		revealed:    make(map[string]bool),
		counting:    make(map[string]bool),
		stagger:     fadeStaggerStep,
		counterSpan: counterDuration,
		counterStep: counterTick,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.unsub = bus.Subscribe(events.TopicScroll, a.onScroll)
	a.evaluate(hello.Scroll)

	return a
}

// Close stops pending stagger and counter timers and detaches from the bus.
func (a *Animation) Close() {
	a.mu.Lock()
	a.closed = true
	for _, t := range a.timers {
		t.Stop()
	}
	a.timers = nil
	a.mu.Unlock()

	if a.unsub != nil {
		a.unsub()
	}
}

func (a *Animation) onScroll(ev events.Event) {
	a.evaluate(ev.Scroll)
}

func (a *Animation) evaluate(s events.Scroll) {
	for group, elems := range a.groups {
		if a.revealed[group] {
			continue
		}
		for _, el := range elems {
			if visibleEnough(el.Top, el.Height, s) {
				a.revealGroup(group, elems)
				break
			}
		}
	}

	for _, c := range a.counters {
		if a.counting[c.ID] {
			continue
		}
		// Counters treat the element as a thin line at its top offset.
		if visibleEnough(c.Top, 1, s) {
			a.startCounter(c)
		}
	}
}

// visibleEnough reports whether at least 10% of the element's area is
// inside the viewport extended by the bottom trigger margin.
func visibleEnough(top, height int, s events.Scroll) bool {
	if height <= 0 {
		height = 1
	}

	viewTop := s.Y
	viewBottom := s.Y + s.ViewHeight + fadeBottomMargin

	overlapTop := max(top, viewTop)
	overlapBottom := min(top+height, viewBottom)
	overlap := overlapBottom - overlapTop
	if overlap <= 0 {
		return false
	}

	return float64(overlap)/float64(height) >= fadeVisibleFraction
}

// revealGroup marks the whole group revealed and schedules the staggered
// per-element reveals: 0ms, 100ms, 200ms, ...
func (a *Animation) revealGroup(group string, elems []FadeElem) {
	a.revealed[group] = true

	for i, el := range elems {
		id := el.ID
		delay := time.Duration(i) * a.stagger
		if delay == 0 {
			a.view.AddClass(id, "visible")
			continue
		}
		a.after(delay, func() {
			a.view.AddClass(id, "visible")
		})
	}
}

// startCounter animates the element text from 0 to the target over the
// fixed window using linear interpolation, then detaches.
func (a *Animation) startCounter(c CounterElem) {
	a.counting[c.ID] = true

	totalTicks := int(a.counterSpan / a.counterStep)
	step := float64(c.Target) / float64(totalTicks)

	var tick func(n int)
	tick = func(n int) {
		if n >= totalTicks {
			a.view.SetText(c.ID, a.digits.Format(c.Target))
			return
		}
		a.view.SetText(c.ID, a.digits.Format(int(step*float64(n))))
		a.after(a.counterStep, func() { tick(n + 1) })
	}
	tick(0)
}

func (a *Animation) after(d time.Duration, fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.timers = append(a.timers, time.AfterFunc(d, func() {
		a.exec.run(fn)
	}))
}
