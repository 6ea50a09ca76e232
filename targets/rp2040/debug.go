//go:build rp2040

package main

import (
	"machine"

	"haptix/core"
)

var debugUART *machine.UART

// initDebugUART routes core debug output to UART1 on GPIO4 (TX) and
// GPIO5 (RX) at 115200 baud
func initDebugUART() {
	debugUART = machine.UART1

	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO4,
		RX:       machine.GPIO5,
	})
	if err != nil {
		return
	}

	core.SetDebugWriter(func(s string) {
		debugUART.Write([]byte(s))
		debugUART.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
}
