//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
)

// The 1 kHz tick comes from the wrap interrupt of a PWM slice whose
// outputs are not routed to any pin.
const tickSlice = 7

var tickPWM = machine.PWM7

func initTick() error {
	if err := tickPWM.Configure(machine.PWMConfig{Period: 1e6}); err != nil { // 1 ms in ns
		return err
	}

	intr := interrupt.New(rp.IRQ_PWM_IRQ_WRAP, onTick)
	rp.PWM.INTR.Set(1 << tickSlice)
	rp.PWM.INTE.SetBits(1 << tickSlice)
	intr.SetPriority(0x40)
	intr.Enable()
	return nil
}

// onTick is the tick interrupt: advance the clock and channel countdowns,
// poll the UART for received bytes and the idle line, and sample the
// reference channel.
func onTick(interrupt.Interrupt) {
	rp.PWM.INTR.Set(1 << tickSlice)

	if fw == nil {
		bootClock.Tick()
		sampleReference()
		return
	}

	fw.Tick()
	pollUART(fw)
	sampleReference()
}
