//go:build rp2040

package main

import (
	"machine"
	"time"

	"haptix/core"
)

// Command and telemetry share UART0 at 115200 8N1
var uart = machine.UART0

const baudRate = 115200

func initUART() error {
	return uart.Configure(machine.UARTConfig{
		BaudRate: baudRate,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
}

var rxByte [1]byte

// pollUART moves bytes the UART interrupt buffered into the command
// receiver. A tick with no new byte after at least one byte counts as
// the idle line: one millisecond is about eleven character times.
func pollUART(f *core.Firmware) {
	got := false
	for uart.Buffered() > 0 {
		b, err := uart.ReadByte()
		if err != nil {
			break
		}
		rxByte[0] = b
		f.Receiver.Feed(rxByte[:])
		got = true
	}
	if !got {
		f.Receiver.LineIdle()
	}
}

// uartPort is the telemetry transmit path
type uartPort struct {
	uart *machine.UART
}

var telemetryPort = &uartPort{uart: uart}

// Transmit writes p byte by byte, giving up at the deadline
func (p *uartPort) Transmit(data []byte, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for _, b := range data {
		if time.Now().After(deadline) {
			return core.ErrTransmitTimeout
		}
		if err := p.uart.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}
