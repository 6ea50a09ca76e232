package core

import (
	"errors"
	"sync/atomic"

	"haptix/protocol"
)

// Stats holds firmware counters. Fields are updated atomically from
// interrupt and superloop context; use Snapshot to read them.
type Stats struct {
	FramesAccepted   uint32
	RejectedShort    uint32
	RejectedHeader   uint32
	RejectedChecksum uint32
	RejectedRange    uint32

	Plays          uint32
	Stops          uint32
	RearmConflicts uint32 // Scheduler re-arm lost to a command publish
	ActuatorErrors uint32

	ScanCycles        uint32
	AnalogErrors      uint32
	TelemetrySent     uint32
	TelemetryTimeouts uint32
	TelemetryErrors   uint32
}

// Snapshot returns a consistent-enough copy for reporting
func (s *Stats) Snapshot() Stats {
	return Stats{
		FramesAccepted:    atomic.LoadUint32(&s.FramesAccepted),
		RejectedShort:     atomic.LoadUint32(&s.RejectedShort),
		RejectedHeader:    atomic.LoadUint32(&s.RejectedHeader),
		RejectedChecksum:  atomic.LoadUint32(&s.RejectedChecksum),
		RejectedRange:     atomic.LoadUint32(&s.RejectedRange),
		Plays:             atomic.LoadUint32(&s.Plays),
		Stops:             atomic.LoadUint32(&s.Stops),
		RearmConflicts:    atomic.LoadUint32(&s.RearmConflicts),
		ActuatorErrors:    atomic.LoadUint32(&s.ActuatorErrors),
		ScanCycles:        atomic.LoadUint32(&s.ScanCycles),
		AnalogErrors:      atomic.LoadUint32(&s.AnalogErrors),
		TelemetrySent:     atomic.LoadUint32(&s.TelemetrySent),
		TelemetryTimeouts: atomic.LoadUint32(&s.TelemetryTimeouts),
		TelemetryErrors:   atomic.LoadUint32(&s.TelemetryErrors),
	}
}

// Rejected returns the total number of discarded command windows
func (s Stats) Rejected() uint32 {
	return s.RejectedShort + s.RejectedHeader + s.RejectedChecksum + s.RejectedRange
}

// countReject attributes a decode failure to its counter
func (s *Stats) countReject(err error) {
	switch {
	case errors.Is(err, protocol.ErrShortFrame):
		atomic.AddUint32(&s.RejectedShort, 1)
	case errors.Is(err, protocol.ErrBadHeader):
		atomic.AddUint32(&s.RejectedHeader, 1)
	case errors.Is(err, protocol.ErrBadChecksum):
		atomic.AddUint32(&s.RejectedChecksum, 1)
	case errors.Is(err, protocol.ErrChannelRange):
		atomic.AddUint32(&s.RejectedRange, 1)
	}
}

// countTransmit attributes a telemetry send result
func (s *Stats) countTransmit(err error) {
	switch {
	case err == nil:
		atomic.AddUint32(&s.TelemetrySent, 1)
	case errors.Is(err, ErrTransmitTimeout):
		atomic.AddUint32(&s.TelemetryTimeouts, 1)
	default:
		atomic.AddUint32(&s.TelemetryErrors, 1)
	}
}

func inc(counter *uint32) {
	atomic.AddUint32(counter, 1)
}
