// Package device is the host-side client of a haptix board: it sends
// actuator commands and reassembles the telemetry stream.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"haptix/protocol"
)

// DefaultCommandGap is the quiet time left after each command so the
// board sees an idle line and closes its receive window
const DefaultCommandGap = 5 * time.Millisecond

var ErrWaveformRange = errors.New("device: waveform out of range")

// Client talks to one board over conn
type Client struct {
	conn io.ReadWriter
	gap  time.Duration

	mu       sync.Mutex
	lastSend time.Time
	stream   *protocol.TelemetryStream
}

// NewClient creates a client. gap <= 0 selects DefaultCommandGap.
func NewClient(conn io.ReadWriter, gap time.Duration) *Client {
	if gap <= 0 {
		gap = DefaultCommandGap
	}
	return &Client{
		conn:   conn,
		gap:    gap,
		stream: protocol.NewTelemetryStream(),
	}
}

// Send transmits one command as a full receive window
func (c *Client) Send(f protocol.CommandFrame) error {
	if f.Channel >= protocol.NumChannels {
		return fmt.Errorf("channel %d: %w", f.Channel, protocol.ErrChannelRange)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := c.gap - time.Since(c.lastSend); wait > 0 {
		time.Sleep(wait)
	}

	window := protocol.EncodeCommand(f)
	_, err := c.conn.Write(window[:])
	c.lastSend = time.Now()
	if err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// Play starts waveform on channel, repeating every duration milliseconds
func (c *Client) Play(channel, waveform uint8, duration uint16) error {
	if !protocol.IsActiveWaveform(waveform) {
		return fmt.Errorf("waveform %d: %w", waveform, ErrWaveformRange)
	}
	return c.Send(protocol.CommandFrame{Channel: channel, WaveformID: waveform, Duration: duration})
}

// Stop silences channel
func (c *Client) Stop(channel uint8) error {
	return c.Send(protocol.CommandFrame{Channel: channel})
}

// StreamStats returns the telemetry reassembly counters
func (c *Client) StreamStats() protocol.StreamStats {
	return c.stream.Stats()
}

// Telemetry reads the connection and calls fn for each verified frame
// until ctx is done or the read fails. A read returning no data is not
// an error; serial ports with a read timeout do that.
func (c *Client) Telemetry(ctx context.Context, fn func(protocol.TelemetryFrame)) error {
	buf := make([]byte, 4*protocol.TelemetryFrameBytes)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := c.conn.Read(buf)
		if n > 0 {
			c.stream.Feed(buf[:n], fn)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("telemetry read failed: %w", err)
		}
	}
}
