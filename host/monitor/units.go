// Package monitor decodes haptix telemetry for people: unit conversion,
// running statistics, line and TUI display, and CBOR recording.
package monitor

import (
	"github.com/chewxy/math32"

	"haptix/host/config"
	"haptix/protocol"
)

// Scale converts raw front-end codes to volts
type Scale struct {
	FullScaleVolts float32 // Volts represented by MaxCode
	MaxCode        uint32
}

// DefaultScale matches a 24-bit converter with a 5 V span
var DefaultScale = Scale{FullScaleVolts: 5.0, MaxCode: 0x7FFFFF}

// ScaleFromConfig builds a Scale from the telemetry section
func ScaleFromConfig(c config.TelemetryConfig) Scale {
	s := Scale{FullScaleVolts: float32(c.FullScaleVolts), MaxCode: c.MaxCode}
	if s.MaxCode == 0 {
		s.MaxCode = DefaultScale.MaxCode
	}
	if s.FullScaleVolts == 0 {
		s.FullScaleVolts = DefaultScale.FullScaleVolts
	}
	return s
}

// Volts converts a telemetry sample word. Samples are signed codes
// carried in two's complement.
func (s Scale) Volts(code uint32) float32 {
	return float32(int32(code)) * s.FullScaleVolts / float32(s.MaxCode)
}

// ReferenceVolts converts the reference word (microvolts)
func ReferenceVolts(microvolts uint32) float32 {
	return float32(microvolts) / 1e6
}

// Sample is one decoded telemetry frame in physical units
type Sample struct {
	Timestamp uint16
	Reference float32
	Volts     [protocol.TelemetryAnalogCount]float32
}

// Decode converts f with s
func (s Scale) Decode(f *protocol.TelemetryFrame) Sample {
	out := Sample{
		Timestamp: f.Timestamp(),
		Reference: ReferenceVolts(f.Reference()),
	}
	for i := range out.Volts {
		out.Volts[i] = s.Volts(f.Analog(i))
	}
	return out
}

// Peak returns the largest absolute voltage in the sample
func (s Sample) Peak() float32 {
	var peak float32
	for _, v := range s.Volts {
		peak = math32.Max(peak, math32.Abs(v))
	}
	return peak
}
