// Package app is the per-session application orchestrator. It constructs
// the page controllers in a fixed order once the page reports readiness,
// exposes lookup by controller name, the manual status update entry point
// and a notification passthrough.
package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/RESA9399/emberfall/internal/analytics"
	"github.com/RESA9399/emberfall/internal/events"
	"github.com/RESA9399/emberfall/internal/geoip"
	"github.com/RESA9399/emberfall/internal/kvstore"
	"github.com/RESA9399/emberfall/internal/notify"
	"github.com/RESA9399/emberfall/internal/page"
	"github.com/RESA9399/emberfall/internal/status"
	"github.com/RESA9399/emberfall/internal/storage"
	"github.com/RESA9399/emberfall/internal/util"
)

// Deps carries the service-wide collaborators a session needs. Repo and Geo
// may be nil; the dependent controllers degrade.
type Deps struct {
	View         page.View
	Repo         *storage.Repository
	Poller       *status.Poller
	Geo          *geoip.Provider
	Digits       *util.DigitFormatter
	Scheme       string
	Address      string
	ScrollOffset int
	ClientIP     string
}

// App owns one page session: its event bus, notification center and
// controllers. All event dispatch and deferred timer work serialize
// through the app's lock, so controllers never observe concurrent input.
type App struct {
	deps  Deps
	bus   *events.Bus
	notes *notify.Center

	mu          sync.Mutex
	controllers map[string]any
	loading     *page.Loading
	unsubStatus func()
	ready       bool
	closed      bool
}

// New builds the session shell. The loading controller is constructed
// immediately so its display floor starts counting before the page
// finishes reporting readiness; everything else waits for Init.
func New(deps Deps) *App {
	a := &App{
		deps:        deps,
		bus:         events.NewBus(),
		controllers: make(map[string]any),
	}

	a.notes = notify.NewCenter(func(b notify.Banner) {
		deps.View.ShowBanner(b)
	})

	a.loading = page.NewLoading(deps.View, a.do)
	a.controllers["loading"] = a.loading
	a.controllers["notify"] = a.notes

	return a
}

// Init constructs the remaining controllers in a fixed order using the
// page's readiness snapshot, then hides the loading screen. A failure at
// any step is caught here: it is logged, surfaced as a single generic
// banner, and the session keeps whatever partial set was built.
func (a *App) Init(hello page.Hello) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ready || a.closed {
		return
	}
	a.ready = true

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Session initialization failed")
			a.notes.Notify("مشکلی در بارگذاری صفحه پیش آمد", notify.Error)
		}
	}()

	kv := kvstore.New(a.deps.Repo)

	nav := page.NewNav(a.bus, a.deps.View, hello.Anchors, a.deps.ScrollOffset)
	a.controllers["nav"] = nav

	widget := page.NewStatusWidget(a.deps.View, a.deps.Digits)
	a.controllers["status"] = widget
	widget.Render(a.deps.Poller.Cell().Snapshot())
	a.unsubStatus = a.deps.Poller.OnUpdate(func(st status.Status) {
		a.do(func() { widget.Render(st) })
	})

	a.controllers["animation"] = page.NewAnimation(a.bus, a.deps.View, a.do, a.deps.Digits, hello)
	a.controllers["easteregg"] = page.NewEasterEgg(a.bus, a.deps.View, a.do)
	a.controllers["theme"] = page.NewTheme(a.bus, a.deps.View, kv, a.notes, hello.Width)
	a.controllers["connect"] = page.NewConnect(a.bus, a.deps.View, a.do, a.notes, a.deps.Scheme, a.deps.Address)
	a.controllers["a11y"] = page.NewA11y(a.bus, a.deps.View, nav, hello.MissingLabels, hello.MenuLinks)
	a.controllers["analytics"] = analytics.New(a.bus, a.deps.Repo, a.deps.Geo, a.deps.ClientIP)

	a.loading.Hide()
}

// HandleEvent dispatches one browser event through the session bus. A
// panicking controller is contained: the fault is logged with context and
// the visitor sees a single generic error banner.
func (a *App) HandleEvent(ev events.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("topic", string(ev.Topic)).
				Str("target", ev.Target).
				Msg("Unhandled fault in event dispatch")
			a.notes.Notify("مشکلی پیش آمد، لطفاً صفحه را دوباره بارگذاری کنید", notify.Error)
		}
	}()

	a.bus.Publish(ev)
}

// Controller returns a constructed controller by name, or nil.
func (a *App) Controller(name string) any {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.controllers[name]
}

// UpdateStatus field-merges the patch into the shared status record and
// re-renders every session's widget via the poller's listeners.
func (a *App) UpdateStatus(p status.Patch) status.Status {
	return a.deps.Poller.Update(p)
}

// Notify is the passthrough banner entry point.
func (a *App) Notify(message string, kind notify.Kind) {
	a.notes.Notify(message, kind)
}

// Close finalizes analytics, cancels all controller timers and detaches
// from the shared poller.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true

	if a.unsubStatus != nil {
		a.unsubStatus()
	}

	for _, c := range a.controllers {
		if closer, ok := c.(interface{ Close() }); ok {
			closer.Close()
		}
	}

	a.bus.Close()
}

// do serializes deferred controller work (timer callbacks, poller
// notifications) onto the session lock.
func (a *App) do(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	fn()
}
