// Package ads1256 drives the TI ADS1256 24-bit delta-sigma ADC,
// sampling its eight inputs single-ended against AINCOM.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/ads1256.pdf
package ads1256

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

var ErrDataTimeout = errors.New("ads1256: DRDY did not assert")
var ErrInputRange = errors.New("ads1256: input out of range")

// OutputPin is a chip-select line
type OutputPin interface {
	High()
	Low()
}

// InputPin is the active-low DRDY line
type InputPin interface {
	Get() bool
}

// t6 is the DIN-to-DOUT delay after RDATA (50 CLKIN periods at 7.68 MHz)
const t6 = 7 * time.Microsecond

// drdyPolls bounds the DRDY wait; at 30 kSPS a conversion is 33 us
const drdyPolls = 200000

// Config is the converter setup written by Configure
type Config struct {
	DataRate uint8 // DRATE value; zero selects 30000 SPS
	Gain     uint8 // PGA setting
	Buffer   bool  // Enable the analog input buffer
}

// Device is one ADS1256 on a shared SPI bus
type Device struct {
	bus  drivers.SPI
	cs   OutputPin
	drdy InputPin

	input uint8
	tx    [4]byte
	rx    [4]byte
}

// New creates a device behind chip-select cs
func New(bus drivers.SPI, cs OutputPin, drdy InputPin) *Device {
	return &Device{
		bus:  bus,
		cs:   cs,
		drdy: drdy,
	}
}

// Configure resets the converter, programs it and runs self-calibration
func (d *Device) Configure(cfg Config) error {
	if cfg.DataRate == 0 {
		cfg.DataRate = Rate30000SPS
	}

	d.cs.High()

	if err := d.command(CmdReset); err != nil {
		return err
	}
	if err := d.waitReady(); err != nil {
		return err
	}
	if err := d.command(CmdSDataC); err != nil {
		return err
	}

	status := uint8(StatusACal)
	if cfg.Buffer {
		status |= StatusBufEn
	}
	if err := d.WriteRegister(RegStatus, status); err != nil {
		return err
	}
	if err := d.WriteRegister(RegADCON, cfg.Gain&0x07); err != nil {
		return err
	}
	if err := d.WriteRegister(RegDRate, cfg.DataRate); err != nil {
		return err
	}
	if err := d.WriteRegister(RegMux, MuxAINCOM); err != nil {
		return err
	}

	if err := d.command(CmdSelfCal); err != nil {
		return err
	}
	return d.waitReady()
}

// SelectChannel switches the input multiplexer to input against AINCOM
// and restarts conversion so the next result belongs to it
func (d *Device) SelectChannel(input uint8) error {
	if input >= Inputs {
		return ErrInputRange
	}
	if err := d.waitReady(); err != nil {
		return err
	}
	if err := d.WriteRegister(RegMux, input<<4|MuxAINCOM); err != nil {
		return err
	}
	if err := d.command(CmdSync); err != nil {
		return err
	}
	if err := d.command(CmdWakeup); err != nil {
		return err
	}
	d.input = input
	return nil
}

// Input returns the selected input
func (d *Device) Input() uint8 {
	return d.input
}

// ReadData waits for a conversion and returns the signed 24-bit result
func (d *Device) ReadData() (int32, error) {
	if err := d.waitReady(); err != nil {
		return 0, err
	}

	d.cs.Low()
	defer d.cs.High()

	d.tx[0] = CmdRData
	if err := d.bus.Tx(d.tx[:1], nil); err != nil {
		return 0, err
	}
	time.Sleep(t6)

	d.tx[0], d.tx[1], d.tx[2] = 0, 0, 0
	if err := d.bus.Tx(d.tx[:3], d.rx[:3]); err != nil {
		return 0, err
	}

	raw := uint32(d.rx[0])<<16 | uint32(d.rx[1])<<8 | uint32(d.rx[2])
	// Sign-extend from 24 bits
	return int32(raw<<8) >> 8, nil
}

// WriteRegister writes a single register
func (d *Device) WriteRegister(reg, value uint8) error {
	d.cs.Low()
	defer d.cs.High()

	d.tx[0] = CmdWReg | (reg & 0x0F)
	d.tx[1] = 0 // One register
	d.tx[2] = value
	return d.bus.Tx(d.tx[:3], nil)
}

// ReadRegister reads a single register
func (d *Device) ReadRegister(reg uint8) (uint8, error) {
	d.cs.Low()
	defer d.cs.High()

	d.tx[0] = CmdRReg | (reg & 0x0F)
	d.tx[1] = 0
	if err := d.bus.Tx(d.tx[:2], nil); err != nil {
		return 0, err
	}
	time.Sleep(t6)

	d.tx[0] = 0
	if err := d.bus.Tx(d.tx[:1], d.rx[:1]); err != nil {
		return 0, err
	}
	return d.rx[0], nil
}

func (d *Device) command(cmd uint8) error {
	d.cs.Low()
	defer d.cs.High()

	d.tx[0] = cmd
	return d.bus.Tx(d.tx[:1], nil)
}

func (d *Device) waitReady() error {
	for i := 0; i < drdyPolls; i++ {
		if !d.drdy.Get() {
			return nil
		}
	}
	return ErrDataTimeout
}
