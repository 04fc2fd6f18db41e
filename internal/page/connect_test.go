package page

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/RESA9399/emberfall/internal/events"
)

const testAddr = "play.example.com:30120"

func newConnectFixture(t *testing.T, view *fakeView) (*events.Bus, *Connect) {
	t.Helper()

	bus := events.NewBus()
	notes := newTestNotify(view)

	c := NewConnect(bus, view, nil, notes, "fivem", testAddr,
		WithRestoreDelay(20*time.Millisecond))

	t.Cleanup(func() {
		c.Close()
		notes.Close()
		bus.Close()
	})

	return bus, c
}

func TestConnectLaunchesAndCopies(t *testing.T) {
	view := newFakeView()
	bus, _ := newConnectFixture(t, view)

	clickOn(bus, IDConnectBtn)

	uris := view.openedURIs()
	if len(uris) != 1 || uris[0] != "fivem://connect/"+testAddr {
		t.Fatalf("opened URIs = %v, want the connect URI", uris)
	}
	if got := view.text(IDConnectBtn); got != connectingLabel {
		t.Errorf("button label = %q, want connecting feedback", got)
	}
	if view.isEnabled(IDConnectBtn) {
		t.Error("button not disabled during the attempt")
	}

	// Launch success is unobservable; the address is copied after the delay
	// and the button restored.
	waitFor(t, func() bool { return len(view.clipboard()) == 1 }, "address never copied")
	waitFor(t, func() bool { return view.isEnabled(IDConnectBtn) }, "button never re-enabled")

	if got := view.clipboard()[0]; got != testAddr {
		t.Errorf("copied %q, want %q", got, testAddr)
	}
	if got := view.text(IDConnectBtn); got != connectLabel {
		t.Errorf("restored label = %q, want %q", got, connectLabel)
	}
}

func TestConnectLaunchFailureCopiesImmediately(t *testing.T) {
	view := newFakeView()
	view.openErr = errors.New("no handler for scheme")
	bus, _ := newConnectFixture(t, view)

	clickOn(bus, IDConnectBtn)

	// The failure path copies synchronously, no delay.
	if got := view.clipboard(); len(got) != 1 || got[0] != testAddr {
		t.Fatalf("clipboard = %v, want immediate copy of %q", got, testAddr)
	}
	if msgs := view.bannerMessages(); len(msgs) == 0 {
		t.Error("no banner after a failed launch")
	}

	waitFor(t, func() bool { return view.isEnabled(IDConnectBtn) }, "button never re-enabled")
}

func TestCopyIPFeedback(t *testing.T) {
	view := newFakeView()
	bus, _ := newConnectFixture(t, view)

	clickOn(bus, IDCopyIPBtn)

	if got := view.clipboard(); len(got) != 1 || got[0] != testAddr {
		t.Fatalf("clipboard = %v, want %q", got, testAddr)
	}
	if got := view.text(IDCopyIPBtn); got != copiedLabel {
		t.Errorf("button label = %q, want copied feedback", got)
	}
	if !view.hasClass(IDCopyIPBtn, "copied") {
		t.Error("copied class missing")
	}

	waitFor(t, func() bool { return view.text(IDCopyIPBtn) == copyLabel }, "label never restored")

	if view.hasClass(IDCopyIPBtn, "copied") {
		t.Error("copied class not cleared on restore")
	}
}

func TestCopyFallsBackToLegacy(t *testing.T) {
	view := newFakeView()
	view.clipErr = errors.New("clipboard unavailable")
	bus, _ := newConnectFixture(t, view)

	clickOn(bus, IDCopyIPBtn)

	if got := view.legacyClipboard(); len(got) != 1 || got[0] != testAddr {
		t.Fatalf("legacy clipboard = %v, want %q", got, testAddr)
	}
	if got := view.text(IDCopyIPBtn); got != copiedLabel {
		t.Errorf("legacy path skipped the copied feedback, label = %q", got)
	}
}

func TestCopyShowsAddressWhenAllPathsFail(t *testing.T) {
	view := newFakeView()
	view.clipErr = errors.New("clipboard unavailable")
	view.legacyErr = errors.New("selection copy blocked")
	bus, _ := newConnectFixture(t, view)

	clickOn(bus, IDCopyIPBtn)

	found := false
	for _, msg := range view.bannerMessages() {
		if strings.Contains(msg, testAddr) {
			found = true
		}
	}
	if !found {
		t.Error("no banner carrying the raw address")
	}
	if got := view.text(IDCopyIPBtn); got == copiedLabel {
		t.Error("copied feedback shown although nothing was copied")
	}
}

func TestClipboardFailureSignalTriggersLegacy(t *testing.T) {
	view := newFakeView()
	bus, _ := newConnectFixture(t, view)

	// The page reports asynchronous clipboard API failures as an action event.
	bus.Publish(events.Event{Topic: events.TopicAction, Name: "clipboard_failed"})

	if got := view.legacyClipboard(); len(got) != 1 || got[0] != testAddr {
		t.Errorf("legacy clipboard = %v, want %q", got, testAddr)
	}
}
