package notify

import (
	"sync"
	"testing"
	"time"
)

func TestBannerLifecycle(t *testing.T) {
	var (
		mu     sync.Mutex
		phases []Phase
	)

	c := NewCenter(func(b Banner) {
		mu.Lock()
		phases = append(phases, b.Phase)
		mu.Unlock()
	}, WithDurations(40*time.Millisecond, 20*time.Millisecond))
	defer c.Close()

	b := c.Notify("saved", Success)
	if b.Kind != Success || b.Phase != Visible {
		t.Fatalf("unexpected initial banner: %+v", b)
	}

	if got := c.Active(); len(got) != 1 {
		t.Fatalf("expected 1 active banner, got %d", len(got))
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	want := []Phase{Visible, Leaving, Gone}
	if len(phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phase[%d] = %s, want %s", i, phases[i], want[i])
		}
	}

	if got := c.Active(); len(got) != 0 {
		t.Errorf("expected no active banners after dismissal, got %d", len(got))
	}
}

func TestBannersStackIndependently(t *testing.T) {
	c := NewCenter(nil, WithDurations(60*time.Millisecond, 20*time.Millisecond))
	defer c.Close()

	c.Notify("first", Info)
	time.Sleep(30 * time.Millisecond)
	c.Notify("second", Error)

	// First banner is past half its display window, second just started;
	// both must still be visible.
	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 stacked banners, got %d", len(active))
	}
	if active[0].Message != "first" || active[1].Message != "second" {
		t.Errorf("unexpected stacking order: %+v", active)
	}

	// First expires while second is still up.
	time.Sleep(60 * time.Millisecond)
	active = c.Active()
	if len(active) != 1 || active[0].Message != "second" {
		t.Errorf("expected only the second banner to remain, got %+v", active)
	}
}

func TestCloseStopsTimers(t *testing.T) {
	var fired int
	c := NewCenter(func(b Banner) {
		if b.Phase != Visible {
			fired++
		}
	}, WithDurations(20*time.Millisecond, 10*time.Millisecond))

	c.Notify("bye", Info)
	c.Close()

	time.Sleep(60 * time.Millisecond)
	if fired != 0 {
		t.Errorf("expected no phase changes after Close, got %d", fired)
	}
}
