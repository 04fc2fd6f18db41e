package page

import (
	"github.com/RESA9399/emberfall/internal/events"
)

// defaultLabels back-fills missing accessible names on the fixed set of
// interactive controls.
var defaultLabels = map[string]string{
	IDMenuToggle: "باز و بسته کردن منو",
	IDConnectBtn: "اتصال به سرور بازی",
	IDCopyIPBtn:  "کپی آدرس سرور",
}

// activatable lists controls that respond to Enter/Space as if clicked.
var activatable = map[string]bool{
	IDMenuToggle:  true,
	IDConnectBtn:  true,
	IDCopyIPBtn:   true,
	IDThemeToggle: true,
}

// A11y patches missing labels, adds keyboard activation, escape-to-close
// for the mobile menu and a focus trap across the menu links.
type A11y struct {
	bus       *events.Bus
	view      View
	nav       *Nav
	menuLinks []string
	unsub     func()
}

// NewA11y wires the accessibility controller. missingLabels is the set of
// control ids the page reported without an accessible name.
func NewA11y(bus *events.Bus, view View, nav *Nav, missingLabels, menuLinks []string) *A11y {
	a := &A11y{
		bus:       bus,
		view:      view,
		nav:       nav,
		menuLinks: menuLinks,
	}

	for _, id := range missingLabels {
		if label, ok := defaultLabels[id]; ok {
			view.SetAttr(id, "aria-label", label)
		}
	}

	a.unsub = bus.Subscribe(events.TopicKey, a.onKey)

	return a
}

// Close detaches the controller from the bus.
func (a *A11y) Close() {
	if a.unsub != nil {
		a.unsub()
	}
}

func (a *A11y) onKey(ev events.Event) {
	switch ev.Code {
	case "Enter", "Space":
		if activatable[ev.Target] {
			a.bus.Publish(events.Event{Topic: events.TopicClick, Target: ev.Target})
		}

	case "Escape":
		if a.nav.MenuOpen() {
			a.nav.CloseMenu()
			a.view.Focus(IDMenuToggle)
		}

	case "Tab":
		a.trapFocus(ev)
	}
}

// trapFocus wraps Tab cycling at the ends of the open menu instead of
// letting focus escape it.
func (a *A11y) trapFocus(ev events.Event) {
	if !a.nav.MenuOpen() || len(a.menuLinks) == 0 {
		return
	}

	first := a.menuLinks[0]
	last := a.menuLinks[len(a.menuLinks)-1]

	switch {
	case !ev.Shift && ev.Target == last:
		a.view.Focus(first)
	case ev.Shift && ev.Target == first:
		a.view.Focus(last)
	}
}
