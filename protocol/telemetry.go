package protocol

import "encoding/binary"

// TelemetryFrame is one outbound telemetry frame of 19 32-bit words.
//
//	word 0      magic 0x55AA
//	word 1      reference (VDDA estimate, microvolts)
//	words 2-17  analog samples, front-end 0 channels 0-7 then front-end 1 channels 0-7
//	word 18     checksum16<<16 | timestamp16
//
// The checksum is the truncated 16-bit sum of words 1 through 17. On the
// wire each word is little-endian, 76 bytes in total.
type TelemetryFrame [TelemetryWords]uint32

// AnalogSlot maps a telemetry sample index (1..16) to its front-end and
// channel: index i reads channel (i-1)%8 on front-end 1 when i > 8.
func AnalogSlot(i int) (frontEnd, channel uint8) {
	channel = uint8((i - 1) % TelemetryChannelsPer)
	if i > TelemetryChannelsPer {
		frontEnd = 1
	}
	return frontEnd, channel
}

// Payload returns the checksummed words 1..17
func (f *TelemetryFrame) Payload() []uint32 {
	return f[TelemetryWordReference:TelemetryWordTrailer]
}

// Seal writes the magic word and the checksum/timestamp trailer
func (f *TelemetryFrame) Seal(timestamp uint16) {
	f[TelemetryWordMagic] = TelemetryMagic
	sum := Sum16(f.Payload())
	f[TelemetryWordTrailer] = uint32(sum)<<16 | uint32(timestamp)
}

// Reference returns the reference reading
func (f *TelemetryFrame) Reference() uint32 {
	return f[TelemetryWordReference]
}

// Analog returns analog sample n (0..15)
func (f *TelemetryFrame) Analog(n int) uint32 {
	return f[TelemetryWordFirstADC+n]
}

// Checksum returns the transmitted checksum field
func (f *TelemetryFrame) Checksum() uint16 {
	return uint16(f[TelemetryWordTrailer] >> 16)
}

// Timestamp returns the transmitted millisecond timestamp
func (f *TelemetryFrame) Timestamp() uint16 {
	return uint16(f[TelemetryWordTrailer])
}

// Verify recomputes the checksum as a receiver would
func (f *TelemetryFrame) Verify() error {
	if f[TelemetryWordMagic] != TelemetryMagic {
		return ErrBadMagic
	}
	if Sum16(f.Payload()) != f.Checksum() {
		return ErrTelemetrySum
	}
	return nil
}

// MarshalTo serializes the frame into dst without allocating
func (f *TelemetryFrame) MarshalTo(dst *[TelemetryFrameBytes]byte) {
	for i, w := range f {
		binary.LittleEndian.PutUint32(dst[i*4:], w)
	}
}

// DecodeTelemetry parses and verifies a 76-byte frame
func DecodeTelemetry(data []byte) (TelemetryFrame, error) {
	var f TelemetryFrame
	if len(data) < TelemetryFrameBytes {
		return f, ErrShortFrame
	}
	for i := range f {
		f[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return f, f.Verify()
}
