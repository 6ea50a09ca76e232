package core

import (
	"sync/atomic"

	"haptix/protocol"
)

// NumChannels is the number of actuator channel slots
const NumChannels = protocol.NumChannels

// ChannelState is the scheduling state of one actuator channel.
//
// Invariant: RemainingTicks <= DurationTicks. Ticks are milliseconds:
// the countdown is decremented by the 1 kHz tick, never by the scan loop.
type ChannelState struct {
	WaveformID     uint8
	DurationTicks  uint16
	RemainingTicks uint16
}

// Active reports whether the channel has a playable waveform selected
func (s ChannelState) Active() bool {
	return protocol.IsActiveWaveform(s.WaveformID)
}

// Packed layout: bits 0-15 remaining, 16-31 duration, 32-39 waveform
func (s ChannelState) pack() uint64 {
	return uint64(s.RemainingTicks) |
		uint64(s.DurationTicks)<<16 |
		uint64(s.WaveformID)<<32
}

func unpackChannel(v uint64) ChannelState {
	return ChannelState{
		WaveformID:     uint8(v >> 32),
		DurationTicks:  uint16(v >> 16),
		RemainingTicks: uint16(v),
	}
}

// ChannelTable is the fixed arena of channel slots.
//
// Each slot is one 64-bit word, so a command publish, a tick decrement
// and a scheduler re-arm are each a single atomic operation. No reader
// can see a new waveform paired with a stale countdown.
type ChannelTable struct {
	slots [NumChannels]uint64
}

// Load returns a consistent snapshot of channel ch
func (t *ChannelTable) Load(ch uint8) ChannelState {
	if ch >= NumChannels {
		return ChannelState{}
	}
	return unpackChannel(atomic.LoadUint64(&t.slots[ch]))
}

// Publish applies a command: waveform and duration are replaced and the
// countdown restarts at duration. Out-of-range channels are ignored and
// false is returned.
func (t *ChannelTable) Publish(ch, waveform uint8, duration uint16) bool {
	if ch >= NumChannels {
		return false
	}
	s := ChannelState{
		WaveformID:     waveform,
		DurationTicks:  duration,
		RemainingTicks: duration,
	}
	atomic.StoreUint64(&t.slots[ch], s.pack())
	return true
}

// Countdown decrements every non-zero countdown by one tick.
// Called from the tick interrupt.
func (t *ChannelTable) Countdown() {
	for i := range t.slots {
		for {
			old := atomic.LoadUint64(&t.slots[i])
			if uint16(old) == 0 {
				break
			}
			if atomic.CompareAndSwapUint64(&t.slots[i], old, old-1) {
				break
			}
		}
	}
}

// Rearm restarts the countdown of ch if the slot still holds observed.
// It returns false when a command was published in between, in which
// case the slot is left untouched.
func (t *ChannelTable) Rearm(ch uint8, observed ChannelState) bool {
	if ch >= NumChannels {
		return false
	}
	next := observed
	next.RemainingTicks = observed.DurationTicks
	return atomic.CompareAndSwapUint64(&t.slots[ch], observed.pack(), next.pack())
}

// Reset returns every channel to idle
func (t *ChannelTable) Reset() {
	for i := range t.slots {
		atomic.StoreUint64(&t.slots[i], 0)
	}
}
