package core

import (
	"testing"
	"time"
)

func TestClockTick(t *testing.T) {
	var c Clock

	for i := 0; i < 5; i++ {
		c.Tick()
	}

	if c.NowMS() != 5 {
		t.Errorf("Expected NowMS 5, got %d", c.NowMS())
	}
	if c.Uptime() != 5 {
		t.Errorf("Expected Uptime 5, got %d", c.Uptime())
	}
}

func TestClockWrap(t *testing.T) {
	var c Clock
	c.ms = 0xFFFF

	c.Tick()

	if c.NowMS() != 0 {
		t.Errorf("Expected NowMS to wrap to 0, got %d", c.NowMS())
	}
	if c.Uptime() != 0x10000 {
		t.Errorf("Expected Uptime 0x10000, got 0x%X", c.Uptime())
	}
}

func TestClockTickWithoutDelay(t *testing.T) {
	var c Clock

	c.Tick()

	if c.DelayPending() {
		t.Error("Delay counter must not underflow")
	}
}

func TestClockDelay(t *testing.T) {
	var c Clock

	stop := make(chan struct{})
	ticked := make(chan struct{})
	go func() {
		defer close(ticked)
		ticker := time.NewTicker(100 * time.Microsecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.Tick()
			}
		}
	}()

	start := c.Uptime()
	c.Delay(20)
	elapsed := c.Uptime() - start

	close(stop)
	<-ticked

	if elapsed < 20 {
		t.Errorf("Delay(20) returned after %d ticks", elapsed)
	}
	if c.DelayPending() {
		t.Error("Delay counter should be zero after Delay returns")
	}
}

func TestClockDelayZero(t *testing.T) {
	var c Clock

	// Returns immediately without any tick source
	c.Delay(0)
}
