package core

import "sync/atomic"

// TickHz is the rate of the hardware tick that drives the clock
const TickHz = 1000

// Clock is the firmware time base.
//
// Tick is the only writer: it runs once per millisecond from the timer
// interrupt. Everything else only reads, so plain atomic loads and
// stores are enough.
type Clock struct {
	ms    uint32 // Wrapping millisecond counter
	delay uint32 // Remaining ms of the active Delay
}

// Tick advances the clock by one millisecond
func (c *Clock) Tick() {
	atomic.AddUint32(&c.ms, 1)

	for {
		d := atomic.LoadUint32(&c.delay)
		if d == 0 || atomic.CompareAndSwapUint32(&c.delay, d, d-1) {
			return
		}
	}
}

// Delay busy-waits for ms milliseconds.
//
// The caller is fully occupied until the tick handler has counted the
// delay down. Not reentrant, and must never be called from an interrupt
// handler: the tick that ends the wait could never run.
func (c *Clock) Delay(ms uint32) {
	atomic.StoreUint32(&c.delay, ms)
	for atomic.LoadUint32(&c.delay) != 0 {
	}
}

// NowMS returns the millisecond timestamp, wrapping at 65536
func (c *Clock) NowMS() uint16 {
	return uint16(atomic.LoadUint32(&c.ms))
}

// Uptime returns the full 32-bit millisecond counter
func (c *Clock) Uptime() uint32 {
	return atomic.LoadUint32(&c.ms)
}

// DelayPending reports whether a Delay is in progress
func (c *Clock) DelayPending() bool {
	return atomic.LoadUint32(&c.delay) != 0
}
