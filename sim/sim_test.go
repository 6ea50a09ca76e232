package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haptix/core"
	"haptix/drivers/ads1256"
	"haptix/protocol"
)

func TestActuatorsEffectExpires(t *testing.T) {
	a := NewActuators()
	now := time.Unix(100, 0)
	a.now = func() time.Time { return now }

	require.ErrorIs(t, a.Play(10), ErrChannelRange, "play before select")

	require.NoError(t, a.Select(2))
	require.NoError(t, a.Play(30))
	assert.True(t, a.Vibrating(2))
	assert.False(t, a.Vibrating(1))

	now = now.Add(a.EffectDuration)
	act := a.Activity(2)
	assert.False(t, act.Playing)
	assert.Equal(t, uint8(30), act.Waveform)
	assert.Equal(t, uint64(1), act.Plays)

	require.NoError(t, a.Play(31))
	require.NoError(t, a.Stop())
	act = a.Activity(2)
	assert.False(t, act.Playing)
	assert.Equal(t, uint64(1), act.Stops)

	assert.ErrorIs(t, a.Select(core.NumChannels), ErrChannelRange)
}

func TestAnalogRanges(t *testing.T) {
	a := NewAnalog(nil, 0, 1)

	assert.ErrorIs(t, a.Select(core.FrontEnds, 0), core.ErrFrontEndRange)
	assert.ErrorIs(t, a.Select(0, ads1256.Inputs), ads1256.ErrInputRange)
	_, err := a.ReadSample(core.FrontEnds)
	assert.ErrorIs(t, err, core.ErrFrontEndRange)

	for fe := uint8(0); fe < core.FrontEnds; fe++ {
		for ch := uint8(0); ch < ads1256.Inputs; ch++ {
			require.NoError(t, a.Select(fe, ch))
			v, err := a.ReadSample(fe)
			require.NoError(t, err)
			code := int32(v)
			assert.LessOrEqual(t, code, int32(ads1256.MaxCode))
			assert.GreaterOrEqual(t, code, int32(-ads1256.MaxCode))
		}
	}

	a.Fail = map[[2]uint8]bool{{1, 3}: true}
	require.NoError(t, a.Select(1, 3))
	_, err = a.ReadSample(1)
	assert.ErrorIs(t, err, ads1256.ErrDataTimeout)
}

func TestReferenceNominal(t *testing.T) {
	r := NewReference(3300000)
	e := core.NewRefEstimator(r)

	v, fresh := e.LatestAverage()
	require.True(t, fresh)
	assert.InDelta(t, 3300000, float64(v), 3300000*0.001)

	FillReference(r, 0)
	_, fresh = e.LatestAverage()
	assert.False(t, fresh, "zero readings must not produce a new estimate")
	assert.Equal(t, v, e.Last())
}

func TestPortTransmitTimeout(t *testing.T) {
	p := NewPort(1)
	defer p.Close()

	require.NoError(t, p.Transmit([]byte{1, 2, 3}, 10*time.Millisecond))
	err := p.Transmit([]byte{4}, 10*time.Millisecond)
	assert.ErrorIs(t, err, core.ErrTransmitTimeout)

	buf := make([]byte, 2)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, buf[:n])
	n, err = p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, buf[:n])
}

func TestPortClosed(t *testing.T) {
	p := NewPort(1)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.Read(make([]byte, 4))
	assert.Error(t, err)
	_, err = p.Write([]byte{1})
	assert.ErrorIs(t, err, ErrPortClosed)
	assert.ErrorIs(t, p.Transmit([]byte{1}, time.Millisecond), ErrPortClosed)
}

func TestDeviceEndToEnd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScanInterval = 2 * time.Millisecond
	d := NewDevice(cfg)
	d.Start(context.Background())
	defer d.Close()

	frames := make(chan protocol.TelemetryFrame, 64)
	go func() {
		stream := protocol.NewTelemetryStream()
		buf := make([]byte, 256)
		for {
			n, err := d.Port.Read(buf)
			if err != nil {
				close(frames)
				return
			}
			stream.Feed(buf[:n], func(f protocol.TelemetryFrame) {
				select {
				case frames <- f:
				default:
				}
			})
		}
	}()

	select {
	case f, ok := <-frames:
		require.True(t, ok)
		require.NoError(t, f.Verify())
		assert.InDelta(t, 3300000, float64(f.Reference()), 3300000*0.001)
	case <-time.After(2 * time.Second):
		t.Fatal("no telemetry")
	}

	w := protocol.EncodeCommand(protocol.CommandFrame{Channel: 1, WaveformID: 0x1E, Duration: 10})
	_, err := d.Port.Write(w[:protocol.CommandFrameLen])
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return d.Actuators.Activity(1).Plays > 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, uint8(0x1E), d.Actuators.Activity(1).Waveform)
	assert.Equal(t, uint32(1), d.Firmware.Stats.Snapshot().FramesAccepted)
}
