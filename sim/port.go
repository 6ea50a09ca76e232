package sim

import (
	"errors"
	"io"
	"sync"
	"time"

	"haptix/core"
	"haptix/protocol"
)

var ErrPortClosed = errors.New("sim: port closed")

// Port is a loopback serial line between the firmware and a host.
//
// The firmware side transmits telemetry through Transmit. The host side
// uses the io.ReadWriteCloser methods: Read returns telemetry bytes and
// each Write is delivered to the receiver as one burst followed by an
// idle line, like a UART with receive-to-idle.
type Port struct {
	frames chan []byte
	done   chan struct{}
	once   sync.Once

	rxMu sync.Mutex // Serializes the simulated UART interrupt
	rx   *protocol.Receiver

	buf []byte
}

var (
	_ core.SerialPort    = (*Port)(nil)
	_ io.ReadWriteCloser = (*Port)(nil)
)

// NewPort creates a port able to queue depth telemetry frames
func NewPort(depth int) *Port {
	if depth <= 0 {
		depth = 16
	}
	return &Port{
		frames: make(chan []byte, depth),
		done:   make(chan struct{}),
	}
}

// Attach connects the host-to-firmware direction to rx
func (p *Port) Attach(rx *protocol.Receiver) {
	p.rxMu.Lock()
	p.rx = rx
	p.rxMu.Unlock()
}

// Transmit queues p for the host. When the host is not draining the
// queue the call gives up after timeout.
func (p *Port) Transmit(data []byte, timeout time.Duration) error {
	frame := make([]byte, len(data))
	copy(frame, data)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return ErrPortClosed
	default:
	}

	select {
	case p.frames <- frame:
		return nil
	case <-p.done:
		return ErrPortClosed
	case <-timer.C:
		return core.ErrTransmitTimeout
	}
}

// Read returns telemetry bytes, blocking until some are available
func (p *Port) Read(b []byte) (int, error) {
	if len(p.buf) == 0 {
		select {
		case frame := <-p.frames:
			p.buf = frame
		case <-p.done:
			return 0, io.EOF
		}
	}
	n := copy(b, p.buf)
	p.buf = p.buf[n:]
	return n, nil
}

// Write delivers b to the firmware receiver as one burst
func (p *Port) Write(b []byte) (int, error) {
	select {
	case <-p.done:
		return 0, ErrPortClosed
	default:
	}

	p.rxMu.Lock()
	defer p.rxMu.Unlock()

	if p.rx != nil {
		p.rx.Feed(b)
		p.rx.LineIdle()
	}
	return len(b), nil
}

// Close shuts both directions
func (p *Port) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
