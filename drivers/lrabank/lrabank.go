// Package lrabank presents a row of DRV2605L drivers behind a TCA9548A
// switch as one actuator bank. All DRV2605L parts share the fixed 0x5A
// address, so only the switch port tells them apart.
package lrabank

import (
	"errors"
	"strconv"

	"haptix/drivers/drv2605l"
	"haptix/drivers/tca9548a"
)

const (
	// Channels is the number of populated actuator channels
	Channels = 5

	// FirstPort is the switch port wired to channel 0
	FirstPort = 3
)

var ErrChannelRange = errors.New("lrabank: channel out of range")

// Mux routes the shared I2C bus to one downstream port
type Mux interface {
	Select(port uint8) error
	Disable() error
}

// Haptic is the driver reached through the selected port
type Haptic interface {
	Configure(cfg drv2605l.Config) error
	Play(id uint8) error
	Stop() error
}

// Bank implements the actuator driver over a mux and a haptic driver
type Bank struct {
	mux    Mux
	haptic Haptic

	Channels  uint8
	FirstPort uint8

	selected int8 // -1 when nothing is selected
}

var (
	_ Mux    = (*tca9548a.Device)(nil)
	_ Haptic = (*drv2605l.Device)(nil)
)

// New creates a bank with the default wiring
func New(mux Mux, haptic Haptic) *Bank {
	return &Bank{
		mux:       mux,
		haptic:    haptic,
		Channels:  Channels,
		FirstPort: FirstPort,
		selected:  -1,
	}
}

// Configure brings up the driver on every channel. It attempts every
// channel and returns a joined error naming the ones that failed.
func (b *Bank) Configure(cfg drv2605l.Config) error {
	var errs []error
	for ch := uint8(0); ch < b.Channels; ch++ {
		if err := b.Select(ch); err != nil {
			errs = append(errs, &ChannelError{Channel: ch, Err: err})
			continue
		}
		if err := b.haptic.Configure(cfg); err != nil {
			errs = append(errs, &ChannelError{Channel: ch, Err: err})
		}
	}
	return errors.Join(errs...)
}

// Select routes Play and Stop to channel index
func (b *Bank) Select(index uint8) error {
	if index >= b.Channels {
		return ErrChannelRange
	}
	if err := b.mux.Select(index + b.FirstPort); err != nil {
		b.selected = -1
		return err
	}
	b.selected = int8(index)
	return nil
}

// Play starts effect id on the selected channel
func (b *Bank) Play(id uint8) error {
	return b.haptic.Play(id)
}

// Stop puts the selected channel's driver in standby
func (b *Bank) Stop() error {
	return b.haptic.Stop()
}

// Selected returns the selected channel, or -1
func (b *Bank) Selected() int {
	return int(b.selected)
}

// ChannelError attributes a bring-up failure to a channel
type ChannelError struct {
	Channel uint8
	Err     error
}

func (e *ChannelError) Error() string {
	return "lrabank: channel " + strconv.Itoa(int(e.Channel)) + ": " + e.Err.Error()
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}
