// Package core implements the haptix real-time loop: the time base, the
// actuator channel table and scheduler, command reception and telemetry
// assembly. Hardware is reached only through the interfaces in hal.go.
package core

import (
	"sync/atomic"

	"haptix/protocol"
)

// Config names the collaborators of a Firmware instance.
// A nil field falls back to the registered singleton.
type Config struct {
	Actuator  ActuatorDriver
	Analog    AnalogSource
	Reference ReferenceSource
	Port      SerialPort
}

// Firmware ties the core together.
//
// Two interrupt sources feed it: the 1 kHz timer calls Tick, and the UART
// delivers bytes and idle-line events to Receiver. The superloop in Run
// repeats ScanCycle: one scheduler pass, then one telemetry frame.
type Firmware struct {
	Clock    Clock
	Channels ChannelTable
	Stats    Stats
	Receiver *protocol.Receiver

	scheduler *Scheduler
	telemetry *TelemetryAssembler
	reference *RefEstimator

	halted uint32
}

// NewFirmware wires a firmware instance. Bring-up of the collaborators
// must already have succeeded.
func NewFirmware(cfg Config) *Firmware {
	if cfg.Actuator == nil {
		cfg.Actuator = MustActuator()
	}
	if cfg.Analog == nil {
		cfg.Analog = MustAnalog()
	}
	if cfg.Reference == nil {
		cfg.Reference = MustReference()
	}
	if cfg.Port == nil {
		cfg.Port = MustSerial()
	}

	fw := &Firmware{}
	fw.Receiver = protocol.NewReceiver(fw.applyFrame)
	fw.Receiver.SetRejectHandler(fw.rejectFrame)
	fw.reference = NewRefEstimator(cfg.Reference)
	fw.scheduler = NewScheduler(&fw.Channels, cfg.Actuator, &fw.Clock, &fw.Stats)
	fw.telemetry = NewTelemetryAssembler(cfg.Analog, fw.reference, cfg.Port, &fw.Clock, &fw.Stats)
	return fw
}

// Tick is the timer interrupt handler: advance the clock and count
// every channel down by one millisecond
func (fw *Firmware) Tick() {
	fw.Clock.Tick()
	fw.Channels.Countdown()
}

// applyFrame runs in UART interrupt context for every valid frame. It
// must not allocate; debug output goes through the event ring.
func (fw *Firmware) applyFrame(f protocol.CommandFrame) {
	if !fw.Channels.Publish(f.Channel, f.WaveformID, f.Duration) {
		fw.Stats.countReject(protocol.ErrChannelRange)
		return
	}
	inc(&fw.Stats.FramesAccepted)
	RecordEvent(EvtFrameAccepted, f.Channel, fw.Clock.Uptime(), uint32(f.WaveformID), uint32(f.Duration))
}

func (fw *Firmware) rejectFrame(err error) {
	fw.Stats.countReject(err)

	var reason uint32
	switch err {
	case protocol.ErrShortFrame:
		reason = RejectShort
	case protocol.ErrBadHeader:
		reason = RejectHeader
	case protocol.ErrBadChecksum:
		reason = RejectChecksum
	case protocol.ErrChannelRange:
		reason = RejectRange
	}
	RecordEvent(EvtFrameRejected, 0, fw.Clock.Uptime(), reason, 0)
}

// Start arms command reception
func (fw *Firmware) Start() {
	atomic.StoreUint32(&fw.halted, 0)
	fw.Receiver.Arm()
}

// ScanCycle runs one superloop iteration. The returned error is the
// telemetry transmit result, for callers that want it; the loop itself
// ignores it.
func (fw *Firmware) ScanCycle() error {
	fw.scheduler.Pass()
	fw.telemetry.Assemble()
	err := fw.telemetry.Transmit()
	inc(&fw.Stats.ScanCycles)
	FlushEvents()
	return err
}

// Run arms reception and repeats ScanCycle until Halt is called
func (fw *Firmware) Run() {
	fw.Start()
	for atomic.LoadUint32(&fw.halted) == 0 {
		fw.ScanCycle()
	}
}

// Halt makes Run return after the current scan cycle
func (fw *Firmware) Halt() {
	atomic.StoreUint32(&fw.halted, 1)
}

// Reset idles every channel
func (fw *Firmware) Reset() {
	fw.Channels.Reset()
}

// Telemetry returns the telemetry assembler
func (fw *Firmware) Telemetry() *TelemetryAssembler {
	return fw.telemetry
}

// Reference returns the reference estimator
func (fw *Firmware) Reference() *RefEstimator {
	return fw.reference
}
