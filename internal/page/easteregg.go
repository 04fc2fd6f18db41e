package page

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/internal/events"
)

// KonamiSequence is the fixed activation sequence, as KeyboardEvent codes.
var KonamiSequence = []string{
	"ArrowUp", "ArrowUp", "ArrowDown", "ArrowDown",
	"ArrowLeft", "ArrowRight", "ArrowLeft", "ArrowRight",
	"KeyB", "KeyA",
}

const (
	konamiEffectDuration  = 5000 * time.Millisecond
	rainbowEffectDuration = 10000 * time.Millisecond
	logoClicksPerRainbow  = 10

	konamiStyleName  = "konamiEffect"
	rainbowStyleName = "rainbowEffect"

	konamiCSS  = "body { filter: invert(1) hue-rotate(180deg); }"
	rainbowCSS = "body { animation: rainbow-shift 2s linear infinite; }"
)

// EasterEgg tracks the konami key sequence and the logo click counter and
// triggers their timed cosmetic effects.
type EasterEgg struct {
	view View
	exec Exec

	konamiSpan  time.Duration
	rainbowSpan time.Duration

	buffer     []string
	logoClicks int

	mu     sync.Mutex
	timers []*time.Timer
	closed bool
	unsub  []func()
}

// EasterEggOption tunes an EasterEgg controller.
type EasterEggOption func(*EasterEgg)

// WithEffectDurations overrides how long each cosmetic effect stays applied.
func WithEffectDurations(konami, rainbow time.Duration) EasterEggOption {
	return func(e *EasterEgg) {
		e.konamiSpan = konami
		e.rainbowSpan = rainbow
	}
}

// NewEasterEgg wires the controller to key and click events.
func NewEasterEgg(bus *events.Bus, view View, exec Exec, opts ...EasterEggOption) *EasterEgg {
	e := &EasterEgg{
		view:        view,
		exec:        exec,
		konamiSpan:  konamiEffectDuration,
		rainbowSpan: rainbowEffectDuration,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.unsub = append(e.unsub,
		bus.Subscribe(events.TopicKey, e.onKey),
		bus.Subscribe(events.TopicClick, e.onClick),
	)

	return e
}

// Close stops effect timers and detaches from the bus.
func (e *EasterEgg) Close() {
	e.mu.Lock()
	e.closed = true
	for _, t := range e.timers {
		t.Stop()
	}
	e.timers = nil
	e.mu.Unlock()

	for _, fn := range e.unsub {
		fn()
	}
}

// onKey appends the code to the bounded buffer (oldest entry evicted) and
// fires the effect when the buffer matches the target sequence exactly.
func (e *EasterEgg) onKey(ev events.Event) {
	e.buffer = append(e.buffer, ev.Code)
	if len(e.buffer) > len(KonamiSequence) {
		e.buffer = e.buffer[1:]
	}

	if !e.bufferMatches() {
		return
	}

	log.Debug().Msg("Konami sequence entered")
	e.buffer = nil

	e.view.InjectStyle(konamiStyleName, konamiCSS)
	e.after(e.konamiSpan, func() {
		e.view.RemoveStyle(konamiStyleName)
	})
}

func (e *EasterEgg) onClick(ev events.Event) {
	if ev.Target != IDSiteLogo {
		return
	}

	e.logoClicks++
	if e.logoClicks < logoClicksPerRainbow {
		return
	}
	e.logoClicks = 0

	e.view.InjectStyle(rainbowStyleName, rainbowCSS)
	e.after(e.rainbowSpan, func() {
		e.view.RemoveStyle(rainbowStyleName)
	})
}

func (e *EasterEgg) bufferMatches() bool {
	if len(e.buffer) != len(KonamiSequence) {
		return false
	}
	for i, code := range KonamiSequence {
		if e.buffer[i] != code {
			return false
		}
	}
	return true
}

func (e *EasterEgg) after(d time.Duration, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	e.timers = append(e.timers, time.AfterFunc(d, func() {
		e.exec.run(fn)
	}))
}
