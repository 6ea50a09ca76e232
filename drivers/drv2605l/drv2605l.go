// Package drv2605l drives the TI DRV2605L haptic driver in LRA mode,
// playing effects from its ROM library with the internal trigger.
//
// Datasheet: https://www.ti.com/lit/ds/symlink/drv2605l.pdf
package drv2605l

import (
	"errors"

	"tinygo.org/x/drivers"
)

var (
	ErrWrongDevice = errors.New("drv2605l: unexpected device id")
	ErrDiagnostic  = errors.New("drv2605l: auto-calibration reported failure")
	ErrNoDelay     = errors.New("drv2605l: config has no Delay")
)

// Config is the LRA setup written during Configure. Zero fields take the
// defaults for a 1.2 Vrms / 1.7 Vpk LRA.
type Config struct {
	RatedVoltage uint8 // RATED_VOLTAGE (Vrms 1.2 V at 300 us sample time)
	ODClamp      uint8 // OD_CLAMP (Vpk 1.7 V)
	Feedback     uint8 // FEEDBACK_CONTROL: LRA, 4x brake, medium loop gain, 15x BEMF gain
	Control1     uint8 // CONTROL1: startup boost, drive time 19
	Library      uint8 // LIBRARY_SEL

	// Delay blocks for the given milliseconds while auto-calibration
	// runs. Configure returns ErrNoDelay without it.
	Delay func(ms uint32)
}

// Calibration holds the auto-calibration results
type Calibration struct {
	Compensation uint8 // A_CAL_COMP
	BackEMF      uint8 // A_CAL_BEMF
	BEMFGain     uint8 // FEEDBACK_CONTROL[1:0]
}

// Device is a DRV2605L on an I2C bus
type Device struct {
	bus     drivers.I2C
	Address uint16

	cal Calibration
	buf [2]byte
}

// New creates a device at the fixed address
func New(bus drivers.I2C) Device {
	return Device{
		bus:     bus,
		Address: Address,
	}
}

func (c *Config) setDefaults() {
	if c.RatedVoltage == 0 {
		c.RatedVoltage = 0x2F
	}
	if c.ODClamp == 0 {
		c.ODClamp = 0x59
	}
	if c.Feedback == 0 {
		c.Feedback = 0xB6
	}
	if c.Control1 == 0 {
		c.Control1 = 0x93
	}
	if c.Library == 0 {
		c.Library = LibraryLRA
	}
}

// Configure checks the device id, writes the LRA setup and runs
// auto-calibration, blocking for one second.
func (d *Device) Configure(cfg Config) error {
	if cfg.Delay == nil {
		return ErrNoDelay
	}
	cfg.setDefaults()

	id, err := d.DeviceID()
	if err != nil {
		return err
	}
	if id != DeviceID {
		return ErrWrongDevice
	}

	setup := [...][2]uint8{
		{RegLibrarySel, cfg.Library},
		{RegRatedVoltage, cfg.RatedVoltage},
		{RegODClamp, cfg.ODClamp},
		{RegFeedback, cfg.Feedback},
		{RegControl1, cfg.Control1},
		{RegMode, ModeAutoCalibration},
		{RegGo, 0x01},
	}
	for _, rv := range setup {
		if err := d.writeReg(rv[0], rv[1]); err != nil {
			return err
		}
	}

	cfg.Delay(1000)

	if d.cal.Compensation, err = d.readReg(RegACalComp); err != nil {
		return err
	}
	if d.cal.BackEMF, err = d.readReg(RegACalBEMF); err != nil {
		return err
	}
	fb, err := d.readReg(RegFeedback)
	if err != nil {
		return err
	}
	d.cal.BEMFGain = fb & 0x03

	status, err := d.readReg(RegStatus)
	if err != nil {
		return err
	}
	if status&StatusDiagResult != 0 {
		return ErrDiagnostic
	}
	return nil
}

// DeviceID reads the DEVICE_ID field of the status register
func (d *Device) DeviceID() (uint8, error) {
	status, err := d.readReg(RegStatus)
	if err != nil {
		return 0, err
	}
	return (status >> StatusDeviceIDShift) & 0x07, nil
}

// Connected reports whether a DRV2605L answers at the address
func (d *Device) Connected() bool {
	id, err := d.DeviceID()
	return err == nil && id == DeviceID
}

// Calibration returns the results of the last Configure
func (d *Device) Calibration() Calibration {
	return d.cal
}

// Play fires ROM effect id once. Ids are clamped to the library range.
func (d *Device) Play(id uint8) error {
	if id < EffectMin {
		id = EffectMin
	}
	if id > EffectMax {
		id = EffectMax
	}

	if err := d.writeReg(RegMode, ModeInternalTrigger); err != nil {
		return err
	}
	if err := d.writeReg(RegWaveSeq1, id); err != nil {
		return err
	}
	return d.writeReg(RegGo, 0x01)
}

// Stop puts the device in standby if it is not already
func (d *Device) Stop() error {
	mode, err := d.readReg(RegMode)
	if err != nil {
		return err
	}
	if mode&ModeStandby != 0 {
		return nil
	}
	return d.writeReg(RegMode, mode|ModeStandby)
}

func (d *Device) writeReg(reg, value uint8) error {
	d.buf[0] = reg
	d.buf[1] = value
	return d.bus.Tx(d.Address, d.buf[:2], nil)
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	d.buf[0] = reg
	if err := d.bus.Tx(d.Address, d.buf[:1], d.buf[1:2]); err != nil {
		return 0, err
	}
	return d.buf[1], nil
}
