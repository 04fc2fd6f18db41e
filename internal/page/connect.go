package page

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/internal/events"
	"github.com/RESA9399/emberfall/internal/notify"
)

const (
	connectRestoreDelay = 2000 * time.Millisecond

	connectLabel    = "اتصال به سرور"
	connectingLabel = "در حال اتصال..."
	copyLabel       = "کپی آدرس"
	copiedLabel     = "کپی شد!"
)

// Connect handles the "connect to server" action and the clipboard-copy
// fallback. Launch success of the custom URI is unobservable, so the
// address is copied after a fixed delay on every attempt.
type Connect struct {
	view    View
	exec    Exec
	notes   *notify.Center
	address string
	scheme  string
	restore time.Duration

	mu     sync.Mutex
	timers []*time.Timer
	closed bool
	unsub  []func()
}

// ConnectOption tunes a Connect controller.
type ConnectOption func(*Connect)

// WithRestoreDelay overrides the button feedback restore delay.
func WithRestoreDelay(d time.Duration) ConnectOption {
	return func(c *Connect) { c.restore = d }
}

// NewConnect wires the connect controller. It listens for clicks on the
// connect and copy buttons and for the client-side clipboard failure signal.
func NewConnect(bus *events.Bus, view View, exec Exec, notes *notify.Center, scheme, address string, opts ...ConnectOption) *Connect {
	c := &Connect{
		view:    view,
		exec:    exec,
		notes:   notes,
		address: address,
		scheme:  scheme,
		restore: connectRestoreDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.unsub = append(c.unsub,
		bus.Subscribe(events.TopicClick, c.onClick),
		bus.Subscribe(events.TopicAction, c.onAction),
	)

	return c
}

// Close stops pending restore timers and detaches from the bus.
func (c *Connect) Close() {
	c.mu.Lock()
	c.closed = true
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
	c.mu.Unlock()

	for _, fn := range c.unsub {
		fn()
	}
}

// Connect launches the game client via the custom URI scheme. The button is
// disabled with a "connecting" label for the duration of the attempt and
// restored after the fixed delay; the address is copied to the clipboard
// regardless of whether the launch succeeded.
func (c *Connect) Connect() {
	c.view.SetText(IDConnectBtn, connectingLabel)
	c.view.SetEnabled(IDConnectBtn, false)

	uri := fmt.Sprintf("%s://connect/%s", c.scheme, c.address)

	if err := c.view.OpenURI(uri); err != nil {
		log.Warn().Err(err).Str("uri", uri).Msg("Failed to open connect URI")
		c.notes.Notify("راه‌اندازی بازی ممکن نشد؛ آدرس سرور کپی شد", notify.Error)
		c.copyAddress()
	} else {
		c.notes.Notify("در حال باز کردن بازی... آدرس سرور هم کپی می‌شود", notify.Info)
		// Launch success is unobservable: always copy after the delay.
		c.after(c.restore, func() { c.copyAddress() })
	}

	c.after(c.restore, func() {
		c.view.SetText(IDConnectBtn, connectLabel)
		c.view.SetEnabled(IDConnectBtn, true)
	})
}

// CopyIP copies the configured address with visual "copied" feedback on the
// copy button, reverting after the fixed delay.
func (c *Connect) CopyIP() {
	if !c.copyAddress() {
		return
	}

	c.notes.Notify("آدرس سرور کپی شد", notify.Success)
	c.view.SetText(IDCopyIPBtn, copiedLabel)
	c.view.AddClass(IDCopyIPBtn, "copied")

	c.after(c.restore, func() {
		c.view.SetText(IDCopyIPBtn, copyLabel)
		c.view.RemoveClass(IDCopyIPBtn, "copied")
	})
}

// copyAddress runs the clipboard fallback chain: platform clipboard, then
// the legacy selection trick, then a banner carrying the raw address so the
// visitor can copy it by hand. Returns true when a copy path succeeded.
func (c *Connect) copyAddress() bool {
	err := c.view.WriteClipboard(c.address)
	if err == nil {
		return true
	}
	log.Debug().Err(err).Msg("Clipboard write failed, trying legacy copy")

	if err = c.view.WriteClipboardLegacy(c.address); err == nil {
		return true
	}
	log.Debug().Err(err).Msg("Legacy clipboard copy failed")

	c.notes.Notify("آدرس سرور: "+c.address, notify.Info)

	return false
}

func (c *Connect) onClick(ev events.Event) {
	switch ev.Target {
	case IDConnectBtn:
		c.Connect()
	case IDCopyIPBtn:
		c.CopyIP()
	}
}

func (c *Connect) onAction(ev events.Event) {
	// The page reports asynchronous clipboard API failures back so the
	// legacy fallback can run.
	if ev.Name != "clipboard_failed" {
		return
	}

	if err := c.view.WriteClipboardLegacy(c.address); err != nil {
		log.Debug().Err(err).Msg("Legacy clipboard copy failed")
		c.notes.Notify("آدرس سرور: "+c.address, notify.Info)
	}
}

func (c *Connect) after(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.timers = append(c.timers, time.AfterFunc(d, func() {
		c.exec.run(fn)
	}))
}
