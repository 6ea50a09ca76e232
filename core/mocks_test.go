package core

import (
	"errors"
	"time"

	"haptix/protocol"
)

var errMockBus = errors.New("mock bus error")

// actuatorCall records one call made to mockActuator
type actuatorCall struct {
	Op       string // "select", "play" or "stop"
	Channel  uint8
	Waveform uint8
}

type mockActuator struct {
	calls    []actuatorCall
	selected uint8

	failSelect map[uint8]bool
	failPlay   bool
	failStop   bool
}

func (m *mockActuator) Select(index uint8) error {
	if m.failSelect[index] {
		return errMockBus
	}
	m.selected = index
	m.calls = append(m.calls, actuatorCall{Op: "select", Channel: index})
	return nil
}

func (m *mockActuator) Play(waveform uint8) error {
	if m.failPlay {
		return errMockBus
	}
	m.calls = append(m.calls, actuatorCall{Op: "play", Channel: m.selected, Waveform: waveform})
	return nil
}

func (m *mockActuator) Stop() error {
	if m.failStop {
		return errMockBus
	}
	m.calls = append(m.calls, actuatorCall{Op: "stop", Channel: m.selected})
	return nil
}

func (m *mockActuator) reset() {
	m.calls = nil
}

// ops returns the play/stop calls made to channel ch
func (m *mockActuator) ops(ch uint8) []actuatorCall {
	var out []actuatorCall
	for _, c := range m.calls {
		if c.Channel == ch && c.Op != "select" {
			out = append(out, c)
		}
	}
	return out
}

// mockAnalog returns frontEnd*1000 + channel*10 + 1 for each read
type mockAnalog struct {
	selected [FrontEnds]uint8
	selects  int
	failSlot map[[2]uint8]bool
}

func (m *mockAnalog) Select(frontEnd, channel uint8) error {
	if frontEnd >= FrontEnds {
		return ErrFrontEndRange
	}
	m.selected[frontEnd] = channel
	m.selects++
	return nil
}

func (m *mockAnalog) ReadSample(frontEnd uint8) (uint32, error) {
	ch := m.selected[frontEnd]
	if m.failSlot[[2]uint8{frontEnd, ch}] {
		return 0, errMockBus
	}
	return uint32(frontEnd)*1000 + uint32(ch)*10 + 1, nil
}

type mockPort struct {
	sent     [][]byte
	timeouts []time.Duration
	err      error
}

func (m *mockPort) Transmit(p []byte, timeout time.Duration) error {
	m.timeouts = append(m.timeouts, timeout)
	if m.err != nil {
		return m.err
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	m.sent = append(m.sent, buf)
	return nil
}

func (m *mockPort) lastFrame() (protocol.TelemetryFrame, error) {
	if len(m.sent) == 0 {
		return protocol.TelemetryFrame{}, errors.New("nothing sent")
	}
	return protocol.DecodeTelemetry(m.sent[len(m.sent)-1])
}

type rig struct {
	fw       *Firmware
	actuator *mockActuator
	analog   *mockAnalog
	ref      *ReferenceRing
	port     *mockPort
}

func newRig() *rig {
	r := &rig{
		actuator: &mockActuator{},
		analog:   &mockAnalog{},
		ref:      NewReferenceRing(1500),
		port:     &mockPort{},
	}
	for i := 0; i < RefSamples; i++ {
		r.ref.Push(1500)
	}
	r.fw = NewFirmware(Config{
		Actuator:  r.actuator,
		Analog:    r.analog,
		Reference: r.ref,
		Port:      r.port,
	})
	r.fw.Start()
	return r
}

// inject delivers a window to the receiver the way the UART would:
// bytes, then an idle-line event
func (r *rig) inject(window []byte) {
	r.fw.Receiver.Feed(window)
	r.fw.Receiver.LineIdle()
}

func (r *rig) ticks(n int) {
	for i := 0; i < n; i++ {
		r.fw.Tick()
	}
}
