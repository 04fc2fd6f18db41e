package util

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebounceCollapsesBurst(t *testing.T) {
	var (
		count int32
		last  atomic.Value
	)

	call, stop := Debounce(func(arg int) {
		atomic.AddInt32(&count, 1)
		last.Store(arg)
	}, 50*time.Millisecond)
	defer stop()

	// Calls at t=0, t=25, t=40 with wait=50: only the last survives,
	// firing 50ms after the final call.
	call(1)
	time.Sleep(25 * time.Millisecond)
	call(2)
	time.Sleep(15 * time.Millisecond)
	call(3)

	time.Sleep(25 * time.Millisecond)
	if n := atomic.LoadInt32(&count); n != 0 {
		t.Fatalf("debounced fn fired before wait elapsed (%d calls)", n)
	}

	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&count); n != 1 {
		t.Fatalf("expected exactly 1 invocation, got %d", n)
	}
	if got := last.Load().(int); got != 3 {
		t.Errorf("expected last call's argument 3, got %d", got)
	}
}

func TestDebounceStopCancelsPending(t *testing.T) {
	var count int32

	call, stop := Debounce(func(struct{}) {
		atomic.AddInt32(&count, 1)
	}, 20*time.Millisecond)

	call(struct{}{})
	stop()

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&count); n != 0 {
		t.Errorf("expected stopped debounce to never fire, got %d calls", n)
	}
}

func TestRandomInRangeBounds(t *testing.T) {
	cases := []struct{ min, max int }{
		{0, 0},
		{1, 1},
		{25, 80},
		{80, 200},
		{-5, 5},
	}

	for _, tc := range cases {
		for i := 0; i < 1000; i++ {
			got := RandomInRange(tc.min, tc.max)
			if got < tc.min || got > tc.max {
				t.Fatalf("RandomInRange(%d, %d) = %d, out of bounds", tc.min, tc.max, got)
			}
		}
	}
}

func TestRandomInRangeHitsBothEnds(t *testing.T) {
	seenMin, seenMax := false, false
	for i := 0; i < 10000; i++ {
		switch RandomInRange(1, 3) {
		case 1:
			seenMin = true
		case 3:
			seenMax = true
		}
	}

	if !seenMin || !seenMax {
		t.Errorf("inclusive bounds not both observed: min=%v max=%v", seenMin, seenMax)
	}
}

func TestDigitFormatter(t *testing.T) {
	f, err := NewDigitFormatter(DefaultDigits)
	if err != nil {
		t.Fatalf("NewDigitFormatter: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"0", "۰"},
		{"150/200", "۱۵۰/۲۰۰"},
		{"99.7%", "۹۹.۷%"},
		{"N/A", "N/A"},
		{"42ms", "۴۲ms"},
	}

	for _, tc := range tests {
		if got := f.FormatString(tc.in); got != tc.want {
			t.Errorf("FormatString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if got := f.Format(1387); got != "۱۳۸۷" {
		t.Errorf("Format(1387) = %q", got)
	}
}

func TestDigitFormatterRejectsBadSet(t *testing.T) {
	if _, err := NewDigitFormatter("012"); err == nil {
		t.Error("expected error for short glyph set")
	}
}
