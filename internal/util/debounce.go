// Package util provides small helpers shared by the page controllers:
// trailing-edge debouncing, bounded random numbers and digit localization.
package util

import (
	"sync"
	"time"
)

// Debounce wraps fn so that a burst of calls collapses into a single
// trailing call made wait after the last invocation. Only the most recent
// call's argument survives; earlier pending calls are cancelled, not queued.
// The returned stop function cancels any pending call for good.
func Debounce[T any](fn func(T), wait time.Duration) (func(T), func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	call := func(arg T) {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() {
			fn(arg)
		})
	}

	stop := func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}

	return call, stop
}
