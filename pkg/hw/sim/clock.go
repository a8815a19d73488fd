package sim

import (
	"sync"
	"time"
)

// Clock is the time base of the simulated backend. Sleep is how a
// blocking primitive spends time.
type Clock interface {
	Now() time.Duration
	Sleep(time.Duration)
}

// ManualClock only moves when told to, and Sleep advances it instantly.
type ManualClock struct {
	now  time.Duration
	lock sync.Mutex
}

// Now implements Clock.
func (c *ManualClock) Now() time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Sleep implements Clock.
func (c *ManualClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) time.Duration {
	c.lock.Lock()
	defer c.lock.Unlock()
	if d > 0 {
		c.now += d
	}
	return c.now
}

// Set moves the clock to t; going backwards is ignored.
func (c *ManualClock) Set(t time.Duration) {
	c.lock.Lock()
	if t > c.now {
		c.now = t
	}
	c.lock.Unlock()
}

// WallClock follows the host monotonic clock.
type WallClock struct {
	start time.Time
}

// NewWallClock creates a WallClock starting at zero now.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now implements Clock.
func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}

// Sleep implements Clock.
func (c *WallClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
