// Package clock abstracts wall-clock time so the work-session rules stay
// deterministic under test.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current instant. Every comparison in the application
// is made in the location of the returned time.
type Clock interface {
	Now() time.Time
}

// System reads the machine's local wall clock.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now().Local()
}

// Fake is a manually driven clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a clock frozen at t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now returns the frozen instant.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// Set jumps the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
