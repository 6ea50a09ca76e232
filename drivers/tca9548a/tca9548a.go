// Package tca9548a drives the TCA9548A 8-port I2C switch.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/tca9548a.pdf
package tca9548a

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Address is the switch address with A2..A0 tied low
const Address = 0x70

// Ports is the number of downstream ports
const Ports = 8

// probePattern is written and read back to confirm the switch responds
const probePattern = 0xA4

var ErrNotDetected = errors.New("tca9548a: control register readback mismatch")

// Device is a TCA9548A on an I2C bus
type Device struct {
	bus     drivers.I2C
	Address uint16

	selected uint8 // Control register shadow
	buf      [1]byte
}

// New creates a device at the default address
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
	}
}

// Configure probes the switch and leaves every port disconnected.
// The ports are disabled even when the probe fails.
func (d *Device) Configure() error {
	d.buf[0] = probePattern
	werr := d.bus.Tx(d.Address, d.buf[:], nil)

	var rx [1]byte
	rerr := d.bus.Tx(d.Address, nil, rx[:])

	if err := d.write(0); err != nil {
		return err
	}
	if werr != nil {
		return werr
	}
	if rerr != nil {
		return rerr
	}
	if rx[0] != probePattern {
		return ErrNotDetected
	}
	return nil
}

// Select connects port ch alone. Any ch >= Ports disconnects every port.
func (d *Device) Select(ch uint8) error {
	var mask uint8
	if ch < Ports {
		mask = 1 << ch
	}
	return d.write(mask)
}

// Disable disconnects every port
func (d *Device) Disable() error {
	return d.write(0)
}

// Selected returns the last control value written
func (d *Device) Selected() uint8 {
	return d.selected
}

func (d *Device) write(mask uint8) error {
	d.buf[0] = mask
	if err := d.bus.Tx(d.Address, d.buf[:], nil); err != nil {
		return err
	}
	d.selected = mask
	return nil
}
