// Package protocol implements the haptix serial wire formats: the inbound
// actuator command frame and the outbound telemetry frame.
package protocol

// Version represents the haptix firmware version
const Version = "0.3.0"

// Command frame layout
const (
	CommandHeader0 = 0x55
	CommandHeader1 = 0xAA

	CommandPosChannel  = 2
	CommandPosWaveform = 3
	CommandPosDurHigh  = 4
	CommandPosDurLow   = 5
	CommandPosChecksum = 6

	CommandFrameLen = 7  // Meaningful bytes
	RxWindowSize    = 10 // Receive window; bytes 7..9 are reserved padding
)

// Telemetry frame layout, in 32-bit words
const (
	TelemetryMagic = 0x55AA

	TelemetryWordMagic     = 0
	TelemetryWordReference = 1
	TelemetryWordFirstADC  = 2
	TelemetryWordTrailer   = 18

	TelemetryAnalogCount = 16 // 8 channels x 2 front-ends
	TelemetryChannelsPer = 8
	TelemetryWords       = 19
	TelemetryFrameBytes  = TelemetryWords * 4 // 76
)

// Channel and waveform limits
const (
	NumChannels = 5
	WaveformMin = 1
	WaveformMax = 123
)
