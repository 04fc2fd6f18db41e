// Package notify implements the transient banner notifier. Banners stack
// independently, auto-dismiss after a fixed display duration and pass
// through a short leaving phase so the page can play an exit transition.
package notify

import (
	"sync"
	"time"
)

// Kind classifies a banner.
type Kind string

// Banner kinds.
const (
	Info    Kind = "info"
	Success Kind = "success"
	Error   Kind = "error"
)

// Phase is the lifecycle stage of a banner.
type Phase string

// Banner phases, in order.
const (
	Visible Phase = "visible"
	Leaving Phase = "leaving"
	Gone    Phase = "gone"
)

const (
	// DefaultDisplay is how long a banner stays fully visible.
	DefaultDisplay = 3000 * time.Millisecond
	// DefaultExit is the duration of the leaving transition.
	DefaultExit = 300 * time.Millisecond
)

// Banner is a single transient notification.
type Banner struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
	Phase   Phase  `json:"phase"`
}

// Listener observes banner phase changes.
type Listener func(Banner)

// Center owns the live banners and their dismissal timers.
type Center struct {
	mu       sync.Mutex
	banners  map[int]*Banner
	timers   map[int]*time.Timer
	listener Listener
	nextID   int
	display  time.Duration
	exit     time.Duration
	closed   bool
}

// Option tunes a Center.
type Option func(*Center)

// WithDurations overrides the display and exit durations.
func WithDurations(display, exit time.Duration) Option {
	return func(c *Center) {
		c.display = display
		c.exit = exit
	}
}

// NewCenter creates a notification center. The listener (may be nil) is
// invoked on every phase change, including creation.
func NewCenter(listener Listener, opts ...Option) *Center {
	c := &Center{
		banners:  make(map[int]*Banner),
		timers:   make(map[int]*time.Timer),
		listener: listener,
		display:  DefaultDisplay,
		exit:     DefaultExit,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Notify creates a banner and schedules its dismissal. Concurrent banners
// stack: each runs its own lifecycle independently.
func (c *Center) Notify(message string, kind Kind) Banner {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return Banner{}
	}

	c.nextID++
	id := c.nextID
	b := &Banner{ID: id, Message: message, Kind: kind, Phase: Visible}
	c.banners[id] = b
	c.timers[id] = time.AfterFunc(c.display, func() { c.leave(id) })

	snapshot := *b
	c.mu.Unlock()

	c.emit(snapshot)

	return snapshot
}

// Active returns the banners that have not fully left yet, oldest first.
func (c *Center) Active() []Banner {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Banner, 0, len(c.banners))
	for id := 1; id <= c.nextID; id++ {
		if b, ok := c.banners[id]; ok {
			out = append(out, *b)
		}
	}

	return out
}

// Close cancels all pending timers. No further banners are created.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = make(map[int]*time.Timer)
	c.banners = make(map[int]*Banner)
}

func (c *Center) leave(id int) {
	c.mu.Lock()

	b, ok := c.banners[id]
	if !ok || c.closed {
		c.mu.Unlock()
		return
	}

	b.Phase = Leaving
	c.timers[id] = time.AfterFunc(c.exit, func() { c.remove(id) })

	snapshot := *b
	c.mu.Unlock()

	c.emit(snapshot)
}

func (c *Center) remove(id int) {
	c.mu.Lock()

	b, ok := c.banners[id]
	if !ok || c.closed {
		c.mu.Unlock()
		return
	}

	b.Phase = Gone
	delete(c.banners, id)
	delete(c.timers, id)

	snapshot := *b
	c.mu.Unlock()

	c.emit(snapshot)
}

func (c *Center) emit(b Banner) {
	if c.listener != nil {
		c.listener(b)
	}
}
