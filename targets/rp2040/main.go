//go:build rp2040

package main

import (
	"machine"
	"runtime/interrupt"
	"time"

	"haptix/core"
	"haptix/drivers/drv2605l"
)

var (
	// fw is published to the tick interrupt once bring-up is complete.
	// Until then the interrupt drives bootClock.
	fw        *core.Firmware
	bootClock core.Clock
)

func main() {
	// Clear any watchdog state left over from before the reset
	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})

	initDebugUART()
	core.DebugPrintln("haptix rp2040 starting")

	if err := initUART(); err != nil {
		halt("uart", err)
	}
	initReference()
	if err := initTick(); err != nil {
		halt("tick", err)
	}

	// Actuator bank: TCA9548A switch in front of five DRV2605L drivers.
	// Calibration blocks one second per channel on the tick-driven delay.
	bank, err := initActuators()
	if err != nil {
		halt("i2c", err)
	}
	if err := bank.Configure(drv2605l.Config{Delay: bootClock.Delay}); err != nil {
		// A missing actuator is reported but does not stop the board
		core.DebugPrintln("actuator bring-up: " + err.Error())
	}
	core.SetActuatorDriver(bank)

	frontEnds, err := initFrontEnds()
	if err != nil {
		halt("spi", err)
	}
	core.SetAnalogSource(frontEnds)

	core.SetReferenceSource(reference)
	core.SetSerialPort(telemetryPort)

	f := core.NewFirmware(core.Config{})
	state := interrupt.Disable()
	fw = f
	interrupt.Restore(state)

	machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: watchdogTimeoutMS})
	machine.Watchdog.Start()

	core.DebugPrintln("haptix ready")

	f.Start()
	for {
		f.ScanCycle()
		machine.Watchdog.Update()
	}
}

// watchdogTimeoutMS exceeds one worst-case scan: sixteen conversions plus
// the full telemetry transmit timeout
const watchdogTimeoutMS = 2000

// halt reports a fatal bring-up failure and stops. The watchdog is not
// running yet, so the board stays here until reset.
func halt(stage string, err error) {
	core.DumpEventRing(nil)
	for {
		core.DebugPrintln("bring-up failed: " + stage + ": " + err.Error())
		time.Sleep(time.Second)
	}
}
