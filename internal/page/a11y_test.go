package page

import (
	"testing"

	"github.com/RESA9399/emberfall/internal/events"
)

func pressKey(bus *events.Bus, code, target string, shift bool) {
	bus.Publish(events.Event{Topic: events.TopicKey, Code: code, Target: target, Shift: shift})
}

func newA11yFixture(t *testing.T, view *fakeView, missing []string) (*events.Bus, *Nav, *A11y) {
	t.Helper()

	bus := events.NewBus()
	nav := NewNav(bus, view, nil, 80)
	a := NewA11y(bus, view, nav, missing, []string{"navHome", "navStatus", "navFeatures", "navConnect"})

	t.Cleanup(func() {
		a.Close()
		nav.Close()
		bus.Close()
	})

	return bus, nav, a
}

func TestA11yBackfillsMissingLabels(t *testing.T) {
	view := newFakeView()
	newA11yFixture(t, view, []string{IDMenuToggle, IDCopyIPBtn, "decorativeDiv"})

	if got := view.attr(IDMenuToggle, "aria-label"); got == "" {
		t.Error("menu toggle label not backfilled")
	}
	if got := view.attr(IDCopyIPBtn, "aria-label"); got == "" {
		t.Error("copy button label not backfilled")
	}
	// Elements without a known default are left alone.
	if got := view.attr("decorativeDiv", "aria-label"); got != "" {
		t.Errorf("unknown element labeled %q", got)
	}
	// Controls the page did not report keep their own labels.
	if got := view.attr(IDConnectBtn, "aria-label"); got != "" {
		t.Errorf("unreported control relabeled %q", got)
	}
}

func TestA11yKeyboardActivation(t *testing.T) {
	view := newFakeView()
	bus, nav, _ := newA11yFixture(t, view, nil)

	// Enter on the menu toggle behaves like a click and opens the menu.
	pressKey(bus, "Enter", IDMenuToggle, false)
	if !nav.MenuOpen() {
		t.Error("Enter did not activate the menu toggle")
	}

	// Space toggles it back.
	pressKey(bus, "Space", IDMenuToggle, false)
	if nav.MenuOpen() {
		t.Error("Space did not activate the menu toggle")
	}

	// Non-activatable targets are ignored.
	pressKey(bus, "Enter", "heroSection", false)
	if nav.MenuOpen() {
		t.Error("Enter on a plain element toggled the menu")
	}
}

func TestA11yEscapeClosesMenuAndRestoresFocus(t *testing.T) {
	view := newFakeView()
	bus, nav, _ := newA11yFixture(t, view, nil)

	nav.ToggleMenu()
	pressKey(bus, "Escape", "navStatus", false)

	if nav.MenuOpen() {
		t.Fatal("Escape did not close the menu")
	}

	focuses := view.ops("focus")
	if len(focuses) != 1 || focuses[0].id != IDMenuToggle {
		t.Errorf("focus ops = %v, want focus back on the toggle", focuses)
	}

	// Escape with the menu closed does nothing.
	pressKey(bus, "Escape", "navStatus", false)
	if got := len(view.ops("focus")); got != 1 {
		t.Errorf("focus ops after second Escape = %d, want 1", got)
	}
}

func TestA11yFocusTrap(t *testing.T) {
	tests := []struct {
		name      string
		open      bool
		target    string
		shift     bool
		wantFocus string
	}{
		{"tab on last wraps to first", true, "navConnect", false, "navHome"},
		{"shift tab on first wraps to last", true, "navHome", true, "navConnect"},
		{"tab mid-list passes through", true, "navStatus", false, ""},
		{"closed menu does not trap", false, "navConnect", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newFakeView()
			bus, nav, _ := newA11yFixture(t, view, nil)

			if tt.open {
				nav.ToggleMenu()
			}

			pressKey(bus, "Tab", tt.target, tt.shift)

			focuses := view.ops("focus")
			if tt.wantFocus == "" {
				if len(focuses) != 0 {
					t.Fatalf("focus ops = %v, want none", focuses)
				}
				return
			}
			if len(focuses) != 1 || focuses[0].id != tt.wantFocus {
				t.Errorf("focus ops = %v, want wrap to %q", focuses, tt.wantFocus)
			}
		})
	}
}
