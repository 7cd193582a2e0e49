package game

import (
	"testing"
	"time"
)

func TestClockStartsPaused(t *testing.T) {
	c := NewClock(5*time.Minute, 2*time.Second)
	defer c.Close()

	if got := c.String(); got != "5:00" {
		t.Errorf("String = %q, want 5:00", got)
	}
	if c.Flag() {
		t.Error("fresh clock flagged")
	}
}

func TestClockPressAddsIncrement(t *testing.T) {
	c := NewClock(5*time.Minute, 2*time.Second)
	defer c.Close()

	c.Resume()
	c.Press()
	if got := c.Remaining(); got != 5*time.Minute+2*time.Second {
		t.Errorf("Remaining = %v, want 5m2s", got)
	}
	if got := c.String(); got != "5:02" {
		t.Errorf("String = %q, want 5:02", got)
	}
}

func TestClockReset(t *testing.T) {
	c := NewClock(3*time.Minute, 0)
	defer c.Close()

	c.Press()
	c.Reset()
	if got := c.Remaining(); got != 3*time.Minute {
		t.Errorf("Remaining = %v, want 3m", got)
	}
}

func TestClockFlag(t *testing.T) {
	c := NewClock(0, 0)
	defer c.Close()

	if !c.Flag() {
		t.Error("zero clock not flagged")
	}
}
