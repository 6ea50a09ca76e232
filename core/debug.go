package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// ScanEvent captures one notable firmware event for post-mortem analysis
type ScanEvent struct {
	EventType uint8  // Event type code
	Channel   uint8  // Actuator channel, if any
	Clock     uint32 // Uptime in ms at the event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtFrameAccepted     = 1 // Command applied; v1=waveform v2=duration
	EvtFrameRejected     = 2 // Window discarded; v1=reject reason
	EvtPlay              = 3 // Play issued; v1=waveform v2=duration
	EvtStop              = 4 // Channel stopped after playing; v1=waveform
	EvtActuatorError     = 5 // Driver call failed; v1=waveform
	EvtTelemetryTimeout  = 6 // Telemetry send timed out; v1=scan cycle
	EvtAnalogError       = 7 // Analog read failed; v1=slot
	EvtReferenceDegraded = 8 // Reference held; v1=held value
)

// Reject reasons carried in EvtFrameRejected
const (
	RejectShort    = 1
	RejectHeader   = 2
	RejectChecksum = 3
	RejectRange    = 4
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]ScanEvent
	eventRingHead uint8
	eventTotal    uint32 // Events recorded since the last clear
	eventsEnabled bool = true

	// eventsPrinted is how far FlushEvents has got; superloop only
	eventsPrinted uint32
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer.
// Safe from interrupt context: the slot write happens under the mask.
func RecordEvent(eventType, channel uint8, clock, value1, value2 uint32) {
	if !eventsEnabled {
		return
	}
	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = ScanEvent{
		EventType: eventType,
		Channel:   channel,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	eventTotal++
	restoreInterrupts(state)
}

// Events returns the recorded events, oldest first
func Events() []ScanEvent {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]ScanEvent, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.EventType == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

func eventName(eventType uint8) string {
	switch eventType {
	case EvtFrameAccepted:
		return "FRAME_OK"
	case EvtFrameRejected:
		return "FRAME_REJECT"
	case EvtPlay:
		return "PLAY"
	case EvtStop:
		return "STOP"
	case EvtActuatorError:
		return "ACT_ERR!"
	case EvtTelemetryTimeout:
		return "TLM_TIMEOUT"
	case EvtAnalogError:
		return "ADC_ERR"
	case EvtReferenceDegraded:
		return "VREF_HOLD"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring buffer (call on shutdown/error)
func DumpEventRing(stats *Stats) {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	if stats != nil {
		s := stats.Snapshot()
		debugPrintln("[EVENT] scans=" + utoa(s.ScanCycles) +
			" frames=" + utoa(s.FramesAccepted) +
			" rejected=" + utoa(s.Rejected()) +
			" plays=" + utoa(s.Plays) +
			" act_err=" + utoa(s.ActuatorErrors))
	}

	for _, evt := range Events() {
		debugPrintln("[EVENT] " + formatEvent(evt))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// FlushEvents prints the events recorded since the previous flush.
// Formatting allocates, so this runs from the superloop, never from an
// interrupt handler; RecordEvent is the interrupt-side half.
func FlushEvents() {
	if !debugEnabled || debugPrintln == nil {
		return
	}

	state := disableInterrupts()
	ring := eventRing
	head := uint32(eventRingHead)
	total := eventTotal
	restoreInterrupts(state)

	n := total - eventsPrinted
	if n == 0 {
		return
	}
	if n > EventRingSize {
		debugPrintln("[EVENT] " + utoa(n-EventRingSize) + " events lost")
		n = EventRingSize
	}
	for i := uint32(0); i < n; i++ {
		debugPrintln("[EVENT] " + formatEvent(ring[(head+EventRingSize-n+i)%EventRingSize]))
	}
	eventsPrinted = total
}

func formatEvent(evt ScanEvent) string {
	line := eventName(evt.EventType) +
		" ch=" + itoa(int(evt.Channel)) +
		" clock=" + utoa(evt.Clock)

	switch evt.EventType {
	case EvtFrameAccepted, EvtPlay:
		return line + " wf=0x" + hex2(uint8(evt.Value1)) + " dur=" + utoa(evt.Value2)
	case EvtStop, EvtActuatorError:
		return line + " wf=0x" + hex2(uint8(evt.Value1))
	}
	return line + " v1=" + utoa(evt.Value1) + " v2=" + utoa(evt.Value2)
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	state := disableInterrupts()
	for i := range eventRing {
		eventRing[i] = ScanEvent{}
	}
	eventRingHead = 0
	eventTotal = 0
	eventsPrinted = 0
	restoreInterrupts(state)
}
