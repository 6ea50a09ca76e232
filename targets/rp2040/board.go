//go:build rp2040

package main

import (
	"machine"

	"haptix/drivers/ads1256"
	"haptix/drivers/drv2605l"
	"haptix/drivers/lrabank"
	"haptix/drivers/tca9548a"
)

// Board wiring
const (
	i2cFrequency = 400000  // TCA9548A and DRV2605L fast mode
	spiFrequency = 1920000 // ADS1256 SCLK must stay below fCLKIN/4

	frontEnd0CS   = machine.GPIO17
	frontEnd0DRDY = machine.GPIO20
	frontEnd1CS   = machine.GPIO21
	frontEnd1DRDY = machine.GPIO22
)

var (
	mux    tca9548a.Device
	haptic drv2605l.Device
)

// initActuators brings up I2C1 and the switch in front of the drivers
func initActuators() (*lrabank.Bank, error) {
	bus := machine.I2C1
	err := bus.Configure(machine.I2CConfig{
		Frequency: i2cFrequency,
		SDA:       machine.GPIO6,
		SCL:       machine.GPIO7,
	})
	if err != nil {
		return nil, err
	}

	mux = tca9548a.New(bus)
	if err := mux.Configure(); err != nil {
		return nil, err
	}

	haptic = drv2605l.New(bus)
	return lrabank.New(&mux, &haptic), nil
}

// initFrontEnds brings up SPI0 and both converters. The ADS1256 samples
// on the falling SCLK edge: SPI mode 1.
func initFrontEnds() (ads1256.FrontEnds, error) {
	bus := machine.SPI0
	err := bus.Configure(machine.SPIConfig{
		Frequency: spiFrequency,
		SCK:       machine.GPIO18,
		SDO:       machine.GPIO19,
		SDI:       machine.GPIO16,
		Mode:      1,
	})
	if err != nil {
		return nil, err
	}

	for _, pin := range []machine.Pin{frontEnd0CS, frontEnd1CS} {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.High()
	}
	for _, pin := range []machine.Pin{frontEnd0DRDY, frontEnd1DRDY} {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	frontEnds := ads1256.FrontEnds{
		ads1256.New(bus, frontEnd0CS, frontEnd0DRDY),
		ads1256.New(bus, frontEnd1CS, frontEnd1DRDY),
	}
	if err := frontEnds.Configure(ads1256.Config{Buffer: true}); err != nil {
		return nil, err
	}
	return frontEnds, nil
}
