package sim

import (
	"errors"
	"sync"
	"time"

	"haptix/core"
)

var ErrChannelRange = errors.New("sim: actuator channel out of range")

// ChannelActivity is the simulated state of one actuator
type ChannelActivity struct {
	Waveform  uint8     // Last waveform played
	Playing   bool      // Effect still running
	StartedAt time.Time // Start of the last effect
	Plays     uint64
	Stops     uint64
}

// Actuators simulates the actuator bank. Each played effect runs for
// EffectDuration unless stopped first.
type Actuators struct {
	mu       sync.RWMutex
	channels [core.NumChannels]ChannelActivity
	selected int

	EffectDuration time.Duration
	now            func() time.Time
}

var _ core.ActuatorDriver = (*Actuators)(nil)

// NewActuators creates an idle bank
func NewActuators() *Actuators {
	return &Actuators{
		selected:       -1,
		EffectDuration: 150 * time.Millisecond,
		now:            time.Now,
	}
}

// Select routes Play and Stop to channel index
func (a *Actuators) Select(index uint8) error {
	if index >= core.NumChannels {
		return ErrChannelRange
	}
	a.mu.Lock()
	a.selected = int(index)
	a.mu.Unlock()
	return nil
}

// Play starts waveform on the selected channel
func (a *Actuators) Play(waveform uint8) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.selected < 0 {
		return ErrChannelRange
	}
	ch := &a.channels[a.selected]
	ch.Waveform = waveform
	ch.Playing = true
	ch.StartedAt = a.now()
	ch.Plays++
	return nil
}

// Stop halts the selected channel
func (a *Actuators) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.selected < 0 {
		return ErrChannelRange
	}
	ch := &a.channels[a.selected]
	ch.Playing = false
	ch.Stops++
	return nil
}

// Activity returns a snapshot of channel ch
func (a *Actuators) Activity(ch uint8) ChannelActivity {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if ch >= core.NumChannels {
		return ChannelActivity{}
	}
	act := a.channels[ch]
	if act.Playing && a.now().Sub(act.StartedAt) >= a.EffectDuration {
		act.Playing = false
	}
	return act
}

// Vibrating reports whether channel ch is running an effect
func (a *Actuators) Vibrating(ch uint8) bool {
	return a.Activity(ch).Playing
}
