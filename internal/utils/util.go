package utils

import (
	"sync"
	"time"
)

// Debouncer provides a way to debounce function calls
type Debouncer struct {
	mutex sync.Mutex
	timer *time.Timer
}

// Debounce calls the provided function after the specified duration,
// canceling any previous pending calls. fn runs on the timer's goroutine.
func (d *Debouncer) Debounce(duration time.Duration, fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	// Cancel existing timer if present
	if d.timer != nil {
		d.timer.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(duration, func() {
		d.mutex.Lock()
		if d.timer != t { // superseded or stopped
			d.mutex.Unlock()
			return
		}
		d.timer = nil
		d.mutex.Unlock()
		fn()
	})
	d.timer = t
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call, if any. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}
