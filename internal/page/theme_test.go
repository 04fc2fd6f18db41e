package page

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/RESA9399/emberfall/internal/events"
	"github.com/RESA9399/emberfall/internal/kvstore"
	"github.com/RESA9399/emberfall/internal/notify"
	"github.com/RESA9399/emberfall/internal/storage"
)

func newTestStore(t *testing.T) *kvstore.Store {
	t.Helper()

	repo, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	return kvstore.New(repo)
}

func newTestNotify(view *fakeView) *notify.Center {
	return notify.NewCenter(view.ShowBanner,
		notify.WithDurations(20*time.Millisecond, 5*time.Millisecond))
}

func TestThemeDefaultsToDark(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	view := newFakeView()
	notes := newTestNotify(view)
	defer notes.Close()

	th := NewTheme(bus, view, newTestStore(t), notes, 1024)
	defer th.Close()

	if got := th.Current(); got != ThemeDark {
		t.Errorf("Current() = %q, want %q", got, ThemeDark)
	}
	if got := view.attr(IDRoot, "data-theme"); got != ThemeDark {
		t.Errorf("data-theme = %q, want %q", got, ThemeDark)
	}
	if !view.themeShown {
		t.Error("toggle control missing on a wide viewport")
	}
}

func TestThemeToggleHiddenOnNarrowViewport(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	view := newFakeView()
	notes := newTestNotify(view)
	defer notes.Close()

	th := NewTheme(bus, view, newTestStore(t), notes, 390)
	defer th.Close()

	if view.themeShown {
		t.Error("toggle control shown on a narrow viewport")
	}
}

func TestThemeTogglePersistsAcrossSessions(t *testing.T) {
	store := newTestStore(t)

	bus := events.NewBus()
	view := newFakeView()
	notes := newTestNotify(view)

	th := NewTheme(bus, view, store, notes, 1024)

	clickOn(bus, IDThemeToggle)

	if got := th.Current(); got != ThemeLight {
		t.Fatalf("Current() after toggle = %q, want %q", got, ThemeLight)
	}
	if got := view.attr(IDRoot, "data-theme"); got != ThemeLight {
		t.Errorf("data-theme = %q, want %q", got, ThemeLight)
	}
	if msgs := view.bannerMessages(); len(msgs) == 0 {
		t.Error("no confirmation banner after toggling")
	}

	th.Close()
	notes.Close()
	bus.Close()

	// A fresh session over the same store restores the saved choice.
	bus2 := events.NewBus()
	defer bus2.Close()
	view2 := newFakeView()
	notes2 := newTestNotify(view2)
	defer notes2.Close()

	th2 := NewTheme(bus2, view2, store, notes2, 1024)
	defer th2.Close()

	if got := th2.Current(); got != ThemeLight {
		t.Errorf("restored theme = %q, want %q", got, ThemeLight)
	}
	if got := view2.attr(IDRoot, "data-theme"); got != ThemeLight {
		t.Errorf("restored data-theme = %q, want %q", got, ThemeLight)
	}
}

func TestThemeToggleRoundTrip(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	view := newFakeView()
	notes := newTestNotify(view)
	defer notes.Close()

	th := NewTheme(bus, view, newTestStore(t), notes, 1024)
	defer th.Close()

	th.Toggle()
	th.Toggle()

	if got := th.Current(); got != ThemeDark {
		t.Errorf("double toggle = %q, want %q", got, ThemeDark)
	}
}
