package page

import (
	"github.com/RESA9399/emberfall/internal/events"
	"github.com/RESA9399/emberfall/internal/kvstore"
	"github.com/RESA9399/emberfall/internal/notify"
)

// Theme values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	themePreferenceKey  = "theme"
	themeToggleMinWidth = 768 // px, checked once at construction
)

// Theme persists the visitor's light/dark choice and applies it to the
// document root. The floating toggle button only exists on viewports wider
// than the mobile breakpoint; the check happens once, at construction.
type Theme struct {
	view    View
	store   *kvstore.Store
	notes   *notify.Center
	current string
	unsub   func()
}

// NewTheme loads the persisted preference (default dark), applies it and
// injects the toggle control when the viewport is wide enough.
func NewTheme(bus *events.Bus, view View, store *kvstore.Store, notes *notify.Center, viewportWidth int) *Theme {
	t := &Theme{
		view:    view,
		store:   store,
		notes:   notes,
		current: store.GetString(themePreferenceKey, ThemeDark),
	}

	t.view.SetAttr(IDRoot, "data-theme", t.current)

	if viewportWidth > themeToggleMinWidth {
		t.view.ShowThemeToggle()
	}

	t.unsub = bus.Subscribe(events.TopicClick, func(ev events.Event) {
		if ev.Target == IDThemeToggle {
			t.Toggle()
		}
	})

	return t
}

// Current returns the active theme.
func (t *Theme) Current() string {
	return t.current
}

// Toggle flips the theme, persists it, reapplies the document attribute and
// confirms with a banner.
func (t *Theme) Toggle() {
	if t.current == ThemeDark {
		t.current = ThemeLight
	} else {
		t.current = ThemeDark
	}

	t.store.Set(themePreferenceKey, t.current)
	t.view.SetAttr(IDRoot, "data-theme", t.current)

	if t.current == ThemeLight {
		t.notes.Notify("تم روشن فعال شد", notify.Success)
	} else {
		t.notes.Notify("تم تیره فعال شد", notify.Success)
	}
}

// Close detaches the controller from the bus.
func (t *Theme) Close() {
	if t.unsub != nil {
		t.unsub()
	}
}
