package page

import (
	"fmt"
	"strings"
	"time"

	"github.com/RESA9399/emberfall/internal/events"
)

const (
	scrolledHeaderAt   = 100 // px
	scrollDebounceWait = 10 * time.Millisecond

	menuIconClosed = "☰"
	menuIconOpen   = "✕"
)

// Nav drives the mobile menu, the scroll progress indicator, the header
// restyle threshold and smooth in-page anchor scrolling.
type Nav struct {
	view         View
	anchors      map[string]int
	scrollOffset int
	menuOpen     bool

	unsub []func()
}

// NewNav wires the navigation controller to the session bus. anchors maps
// section ids to their page offsets; scrollOffset is subtracted from anchor
// targets so content clears the fixed header.
func NewNav(bus *events.Bus, view View, anchors map[string]int, scrollOffset int) *Nav {
	n := &Nav{
		view:         view,
		anchors:      anchors,
		scrollOffset: scrollOffset,
	}

	n.unsub = append(n.unsub,
		bus.Subscribe(events.TopicClick, n.onClick),
		bus.SubscribeDebounced(events.TopicScroll, scrollDebounceWait, n.onScroll),
	)

	return n
}

// MenuOpen reports whether the mobile menu is currently open.
func (n *Nav) MenuOpen() bool {
	return n.menuOpen
}

// ToggleMenu flips the mobile menu and updates the toggle glyph.
func (n *Nav) ToggleMenu() {
	if n.menuOpen {
		n.CloseMenu()
		return
	}

	n.menuOpen = true
	n.view.AddClass(IDNavMenu, "open")
	n.view.SetText(IDMenuIcon, menuIconOpen)
	n.view.SetAttr(IDMenuToggle, "aria-expanded", "true")
}

// CloseMenu closes the mobile menu if open.
func (n *Nav) CloseMenu() {
	if !n.menuOpen {
		return
	}

	n.menuOpen = false
	n.view.RemoveClass(IDNavMenu, "open")
	n.view.SetText(IDMenuIcon, menuIconClosed)
	n.view.SetAttr(IDMenuToggle, "aria-expanded", "false")
}

// Close detaches the controller from the bus.
func (n *Nav) Close() {
	for _, fn := range n.unsub {
		fn()
	}
}

func (n *Nav) onClick(ev events.Event) {
	switch {
	case ev.Target == IDMenuToggle || ev.Target == IDMenuIcon:
		n.ToggleMenu()
		return

	case hasClass(ev, "nav-link") || (ev.Target == IDSiteLogo && strings.HasPrefix(ev.Href, "#")):
		n.scrollToAnchor(ev.Href)
		n.CloseMenu()
		return
	}

	// Any other click outside the menu closes it.
	if n.menuOpen && ev.Outside {
		n.CloseMenu()
	}
}

func (n *Nav) onScroll(ev events.Event) {
	pct := ev.Scroll.Percent()
	n.view.SetStyle(IDScrollProgress, "width", fmt.Sprintf("%.2f%%", pct))

	if ev.Scroll.Y > scrolledHeaderAt {
		n.view.AddClass(IDSiteHeader, "scrolled")
	} else {
		n.view.RemoveClass(IDSiteHeader, "scrolled")
	}
}

func (n *Nav) scrollToAnchor(href string) {
	target := strings.TrimPrefix(href, "#")
	top, ok := n.anchors[target]
	if !ok {
		return
	}

	y := top - n.scrollOffset
	if y < 0 {
		y = 0
	}
	n.view.ScrollTo(y)
}

func hasClass(ev events.Event, class string) bool {
	for _, c := range ev.Classes {
		if c == class {
			return true
		}
	}
	return false
}
