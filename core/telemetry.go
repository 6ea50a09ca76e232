package core

import (
	"errors"
	"sync/atomic"
	"time"

	"haptix/protocol"
)

// TelemetryTimeout bounds each telemetry transmit
const TelemetryTimeout = 1000 * time.Millisecond

// FrontEnds is the number of analog front-ends scanned per frame
const FrontEnds = 2

// TelemetryAssembler performs the analog scan and ships one frame.
// The frame and its wire image are fixed buffers reused every cycle.
type TelemetryAssembler struct {
	analog    AnalogSource
	reference *RefEstimator
	port      SerialPort
	clock     *Clock
	stats     *Stats

	frame protocol.TelemetryFrame
	wire  [protocol.TelemetryFrameBytes]byte

	refHeld bool // Reference was held on the previous frame
}

// NewTelemetryAssembler creates an assembler
func NewTelemetryAssembler(analog AnalogSource, reference *RefEstimator, port SerialPort, clock *Clock, stats *Stats) *TelemetryAssembler {
	return &TelemetryAssembler{
		analog:    analog,
		reference: reference,
		port:      port,
		clock:     clock,
		stats:     stats,
	}
}

// Assemble fills and seals the frame without sending it
func (a *TelemetryAssembler) Assemble() *protocol.TelemetryFrame {
	ref, fresh := a.reference.LatestAverage()
	if !fresh && !a.refHeld {
		RecordEvent(EvtReferenceDegraded, 0, a.clock.Uptime(), ref, 0)
	}
	a.refHeld = !fresh
	a.frame[protocol.TelemetryWordReference] = ref

	for i := 1; i <= protocol.TelemetryAnalogCount; i++ {
		a.frame[protocol.TelemetryWordReference+i] = a.sample(i)
	}

	a.frame.Seal(a.clock.NowMS())
	return &a.frame
}

// sample reads telemetry slot i; a failed select or read reports 0
func (a *TelemetryAssembler) sample(i int) uint32 {
	frontEnd, channel := protocol.AnalogSlot(i)

	if err := a.analog.Select(frontEnd, channel); err != nil {
		a.analogError(i)
		return 0
	}

	v, err := a.analog.ReadSample(frontEnd)
	if err != nil {
		a.analogError(i)
		return 0
	}
	return v
}

func (a *TelemetryAssembler) analogError(slot int) {
	inc(&a.stats.AnalogErrors)
	RecordEvent(EvtAnalogError, 0, a.clock.Uptime(), uint32(slot), 0)
}

// Transmit sends the last assembled frame. A timeout is counted and
// not retried; the next scan carries on regardless.
func (a *TelemetryAssembler) Transmit() error {
	a.frame.MarshalTo(&a.wire)
	err := a.port.Transmit(a.wire[:], TelemetryTimeout)
	a.stats.countTransmit(err)
	if errors.Is(err, ErrTransmitTimeout) {
		RecordEvent(EvtTelemetryTimeout, 0, a.clock.Uptime(), atomic.LoadUint32(&a.stats.ScanCycles), 0)
	}
	return err
}

// Frame returns the frame buffer
func (a *TelemetryAssembler) Frame() *protocol.TelemetryFrame {
	return &a.frame
}
