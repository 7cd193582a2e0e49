package game

import (
	"fmt"
	"sync"
	"time"
)

// Clock is a per-side game clock. It only displays time; nothing in the
// game ends when it flags.
type Clock struct {
	mu        sync.Mutex
	duration  time.Duration
	remaining time.Duration
	increment time.Duration
	paused    bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewClock returns a paused clock and starts its ticker.
func NewClock(duration, increment time.Duration) *Clock {
	c := &Clock{
		duration:  duration,
		remaining: duration,
		increment: increment,
		paused:    true,
		done:      make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Clock) run() {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			c.mu.Lock()
			if !c.paused && c.remaining > 0 {
				c.remaining -= time.Second
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// Resume lets the clock run.
func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Press stops the clock and applies the increment, like hitting the
// button on a physical clock.
func (c *Clock) Press() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	c.remaining += c.increment
}

// Pause stops the clock without an increment.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Reset pauses the clock and restores the full duration.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	c.remaining = c.duration
}

// Remaining returns the time left.
func (c *Clock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Flag reports whether the clock has run out.
func (c *Clock) Flag() bool { return c.Remaining() <= 0 }

func (c *Clock) String() string {
	r := c.Remaining()
	return fmt.Sprintf("%d:%02d", int(r.Minutes()), int(r.Seconds())%60)
}

// Close stops the ticker goroutine.
func (c *Clock) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
