//go:build rp2040

package main

import (
	"machine"

	"haptix/core"
)

// A 1.25 V shunt reference on ADC2 stands in for an internal reference
// channel. refCalibration is its 12-bit code with a 3.3 V supply.
const (
	refCalibration = 1551
	refEveryTicks  = 10
)

var (
	refADC    = machine.ADC{Pin: machine.ADC2}
	reference = core.NewReferenceRing(refCalibration)
	refTicks  uint8
)

func initReference() {
	machine.InitADC()
	refADC.Configure(machine.ADCConfig{})
}

// sampleReference runs from the tick interrupt and pushes one reading
// every refEveryTicks ticks
func sampleReference() {
	refTicks++
	if refTicks < refEveryTicks {
		return
	}
	refTicks = 0

	// Get returns a 16-bit scaled value; the converter is 12 bits
	reference.Push(refADC.Get() >> 4)
}
