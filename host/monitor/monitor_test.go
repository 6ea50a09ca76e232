package monitor

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haptix/host/config"
	"haptix/protocol"
)

func testFrame(ts uint16, codes ...int32) protocol.TelemetryFrame {
	var f protocol.TelemetryFrame
	f[protocol.TelemetryWordReference] = 3300000
	for i, c := range codes {
		f[protocol.TelemetryWordFirstADC+i] = uint32(c)
	}
	f.Seal(ts)
	return f
}

func TestScaleVolts(t *testing.T) {
	s := DefaultScale

	assert.InDelta(t, 5.0, s.Volts(0x7FFFFF), 1e-6)
	assert.InDelta(t, -5.0, s.Volts(uint32(0xFF800001)), 1e-6) // -0x7FFFFF
	assert.InDelta(t, 0.0, s.Volts(0), 1e-9)
	assert.InDelta(t, 2.5, s.Volts(0x7FFFFF/2), 1e-5)

	assert.InDelta(t, 3.3, ReferenceVolts(3300000), 1e-6)
}

func TestScaleFromConfig(t *testing.T) {
	s := ScaleFromConfig(config.TelemetryConfig{FullScaleVolts: 2.5})
	assert.Equal(t, float32(2.5), s.FullScaleVolts)
	assert.Equal(t, uint32(0x7FFFFF), s.MaxCode)

	s = ScaleFromConfig(config.Default().Telemetry)
	assert.Equal(t, DefaultScale, s)
}

func TestSamplePeak(t *testing.T) {
	f := testFrame(0, 0x100000, -0x400000, 0x200000)
	s := DefaultScale.Decode(&f)

	assert.InDelta(t, 0x400000*5.0/0x7FFFFF, s.Peak(), 1e-5)
	assert.InDelta(t, 3.3, s.Reference, 1e-6)
}

func TestStatistics(t *testing.T) {
	stats := NewStatistics()
	now := stats.StartTime
	stats.now = func() time.Time { return now }

	for i, ts := range []uint16{100, 108, 116, 116, 5000} {
		codes := make([]int32, protocol.TelemetryAnalogCount)
		codes[0] = int32(i) * 0x100000
		f := testFrame(ts, codes...)
		stats.Update(DefaultScale.Decode(&f))
	}

	assert.Equal(t, uint64(5), stats.Frames)
	assert.Equal(t, uint64(2), stats.TimestampGaps, "repeat and jump")
	assert.InDelta(t, 0.0, stats.Channels[0].Min, 1e-6)
	assert.InDelta(t, 4*0x100000*5.0/0x7FFFFF, stats.Channels[0].Max, 1e-5)
	assert.InDelta(t, 2*0x100000*5.0/0x7FFFFF, stats.Channels[0].Mean(), 1e-5)
	assert.Zero(t, stats.Channels[1].RMS())
	assert.InDelta(t, 3.3, stats.Reference.Mean(), 1e-6)

	stats.UpdateStream(protocol.StreamStats{ChecksumErrors: 3, DroppedBytes: 9})
	now = now.Add(2 * time.Second)
	stats.CalculateRates()
	assert.InDelta(t, 2.5, stats.FrameRate, 1e-9)
	assert.InDelta(t, 2.5, stats.ErrorRate, 1e-9)

	out := stats.String()
	assert.Contains(t, out, "Checksum Errors:        3")
	assert.Contains(t, out, "Timestamp Gaps:         2")

	stats.Reset()
	assert.Zero(t, stats.Frames)
	assert.Zero(t, stats.Channels[0].Count)
}

func TestFormatterPlain(t *testing.T) {
	f := testFrame(42, 0x7FFFFF)
	fm := &Formatter{Scale: DefaultScale, Plain: true}

	line := fm.FormatFrame(&f)
	assert.True(t, strings.HasPrefix(line, "[   42 ms] VDDA:3.3000V FE0: +5.000 +0.000"), line)
	assert.Contains(t, line, "FE1:")

	fm.ReferenceLabel = "AVDD"
	assert.Contains(t, fm.FormatFrame(&f), "AVDD:")
	assert.Equal(t, "✗ boom", fm.FormatError("boom"))
}

func TestRecorderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC)
	frames := []protocol.TelemetryFrame{
		testFrame(10, 1, 2, 3),
		testFrame(18, -1, -2, -3),
	}
	for i := range frames {
		require.NoError(t, rec.Write(&frames[i], at.Add(time.Duration(i)*time.Millisecond)))
	}
	assert.Equal(t, 2, rec.Count())

	var got []Record
	require.NoError(t, ReadRecords(&buf, func(r Record) error {
		got = append(got, r)
		return nil
	}))
	require.Len(t, got, 2)

	for i, r := range got {
		assert.True(t, r.Received.Equal(at.Add(time.Duration(i)*time.Millisecond)))
		assert.Equal(t, frames[i], r.Frame())
	}
}

func TestReadRecordsStopsOnCallbackError(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf)
	require.NoError(t, err)

	f := testFrame(1)
	require.NoError(t, rec.Write(&f, time.Now()))
	require.NoError(t, rec.Write(&f, time.Now()))

	stop := errors.New("stop")
	calls := 0
	err = ReadRecords(&buf, func(Record) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

type fakeCommander struct {
	plays []protocol.CommandFrame
	stops []uint8
	err   error
}

func (c *fakeCommander) Play(channel, waveform uint8, duration uint16) error {
	if c.err != nil {
		return c.err
	}
	c.plays = append(c.plays, protocol.CommandFrame{Channel: channel, WaveformID: waveform, Duration: duration})
	return nil
}

func (c *fakeCommander) Stop(channel uint8) error {
	c.stops = append(c.stops, channel)
	return c.err
}

func press(m tea.Model, msg tea.KeyMsg) tea.Model {
	next, _ := m.Update(msg)
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelFramesAndPause(t *testing.T) {
	var m tea.Model = NewModel("Serial: test", DefaultScale, "", nil)

	f := testFrame(7, 0x100)
	m, _ = m.Update(FrameMsg{Frame: f, Stream: protocol.StreamStats{DroppedBytes: 4}})
	model := m.(Model)
	require.NotNil(t, model.last)
	assert.Equal(t, uint16(7), model.last.Timestamp)
	assert.Equal(t, uint64(1), model.stats.Frames)
	assert.Equal(t, uint64(4), model.stats.DroppedBytes)
	assert.Contains(t, model.View(), "Serial: test")

	m = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = m.Update(FrameMsg{Frame: f})
	assert.Equal(t, uint64(1), m.(Model).stats.Frames, "paused view ignores frames")
	assert.Contains(t, m.(Model).View(), "paused")

	m = press(m, runes("p"))
	assert.Contains(t, m.(Model).View(), "read-only connection")
}

func TestModelCommands(t *testing.T) {
	cmd := &fakeCommander{}
	var m tea.Model = NewModel("sim", DefaultScale, "", cmd)

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(m, runes("w"))
	m = press(m, runes("p"))
	m = press(m, runes("s"))

	require.Len(t, cmd.plays, 1)
	assert.Equal(t, protocol.CommandFrame{Channel: 2, WaveformID: 2, Duration: 500}, cmd.plays[0])
	assert.Equal(t, []uint8{2}, cmd.stops)

	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, uint8(4), m.(Model).channel, "wraps below zero")

	cmd.err = errors.New("link down")
	m = press(m, runes("p"))
	assert.Contains(t, m.(Model).View(), "link down")

	_, quit := m.Update(runes("q"))
	require.NotNil(t, quit)
}

func TestModelWaveformWraps(t *testing.T) {
	m := NewModel("sim", DefaultScale, "", nil)
	m.wave = protocol.WaveformMax

	next, _ := m.Update(runes("w"))
	assert.Equal(t, uint8(protocol.WaveformMin), next.(Model).wave)
}
