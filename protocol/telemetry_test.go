package protocol

import (
	"errors"
	"testing"
)

func sampleFrame() TelemetryFrame {
	var f TelemetryFrame
	f[TelemetryWordReference] = 3300000
	for n := 0; n < TelemetryAnalogCount; n++ {
		f[TelemetryWordFirstADC+n] = uint32(0x10000*n + 100*n)
	}
	return f
}

func TestAnalogSlot(t *testing.T) {
	testCases := []struct {
		i        int
		frontEnd uint8
		channel  uint8
	}{
		{1, 0, 0},
		{8, 0, 7},
		{9, 1, 0},
		{16, 1, 7},
	}

	for _, tc := range testCases {
		fe, ch := AnalogSlot(tc.i)
		if fe != tc.frontEnd || ch != tc.channel {
			t.Errorf("AnalogSlot(%d) = (%d,%d), expected (%d,%d)", tc.i, fe, ch, tc.frontEnd, tc.channel)
		}
	}
}

func TestTelemetrySeal(t *testing.T) {
	f := sampleFrame()
	f.Seal(0xBEEF)

	if f[TelemetryWordMagic] != TelemetryMagic {
		t.Errorf("Magic not set: 0x%X", f[TelemetryWordMagic])
	}

	var want uint16
	for i := 1; i <= 17; i++ {
		want += uint16(f[i])
	}
	if f.Checksum() != want {
		t.Errorf("Checksum 0x%04X, expected 0x%04X", f.Checksum(), want)
	}
	if f.Timestamp() != 0xBEEF {
		t.Errorf("Timestamp 0x%04X, expected 0xBEEF", f.Timestamp())
	}
	if err := f.Verify(); err != nil {
		t.Errorf("Sealed frame failed verification: %v", err)
	}
}

func TestTelemetryKnownChecksum(t *testing.T) {
	var f TelemetryFrame
	for i := 1; i <= 17; i++ {
		f[i] = uint32(i)
	}
	f.Seal(7)

	// 1+2+...+17 = 153
	if f.Checksum() != 153 {
		t.Errorf("Checksum %d, expected 153", f.Checksum())
	}
	if f[TelemetryWordTrailer] != 153<<16|7 {
		t.Errorf("Trailer 0x%08X", f[TelemetryWordTrailer])
	}
}

func TestTelemetryRoundTrip(t *testing.T) {
	f := sampleFrame()
	f.Seal(1234)

	var buf [TelemetryFrameBytes]byte
	f.MarshalTo(&buf)

	if buf[0] != 0xAA || buf[1] != 0x55 || buf[2] != 0 || buf[3] != 0 {
		t.Errorf("Magic not little-endian on the wire: % X", buf[:4])
	}

	got, err := DecodeTelemetry(buf[:])
	if err != nil {
		t.Fatalf("DecodeTelemetry failed: %v", err)
	}
	if got != f {
		t.Errorf("Round trip mismatch")
	}
	if got.Reference() != 3300000 || got.Analog(3) != f[TelemetryWordFirstADC+3] {
		t.Errorf("Accessor mismatch: ref=%d analog3=%d", got.Reference(), got.Analog(3))
	}
}

func TestTelemetryCorruption(t *testing.T) {
	f := sampleFrame()
	f.Seal(1)

	var buf [TelemetryFrameBytes]byte
	f.MarshalTo(&buf)

	// Flip a low byte of the reference word
	buf[4] ^= 0x01
	if _, err := DecodeTelemetry(buf[:]); !errors.Is(err, ErrTelemetrySum) {
		t.Errorf("Expected checksum error, got %v", err)
	}

	buf[4] ^= 0x01
	buf[0] = 0
	if _, err := DecodeTelemetry(buf[:]); !errors.Is(err, ErrBadMagic) {
		t.Errorf("Expected magic error, got %v", err)
	}

	if _, err := DecodeTelemetry(buf[:10]); !errors.Is(err, ErrShortFrame) {
		t.Errorf("Expected short frame error, got %v", err)
	}
}

func TestTelemetryUpperHalfUnchecked(t *testing.T) {
	f := sampleFrame()
	f.Seal(1)

	var buf [TelemetryFrameBytes]byte
	f.MarshalTo(&buf)

	// The 16-bit sum only sees the low half of each word, so damage to
	// bytes 2..3 of a covered word goes undetected
	for _, off := range []int{6, 7, 10, 11} {
		bad := buf
		bad[off] ^= 0xFF
		got, err := DecodeTelemetry(bad[:])
		if err != nil {
			t.Errorf("Byte %d: expected the frame to verify, got %v", off, err)
			continue
		}
		if got == f {
			t.Errorf("Byte %d: corruption did not reach the decoded frame", off)
		}
	}

	// The low half is covered
	for _, off := range []int{4, 5, 8, 9} {
		bad := buf
		bad[off] ^= 0xFF
		if _, err := DecodeTelemetry(bad[:]); !errors.Is(err, ErrTelemetrySum) {
			t.Errorf("Byte %d: expected checksum error, got %v", off, err)
		}
	}
}
