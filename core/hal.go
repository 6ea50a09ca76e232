package core

import "time"

// ActuatorDriver drives the actuator bank. Select routes the following
// Play/Stop to one channel; all three are fire-and-forget.
type ActuatorDriver interface {
	// Select routes subsequent Play/Stop calls to channel index.
	Select(index uint8) error

	// Play starts waveform on the selected channel.
	Play(waveform uint8) error

	// Stop halts the selected channel.
	Stop() error
}

// AnalogSource reads the multiplexed analog front-ends.
type AnalogSource interface {
	// Select routes front-end frontEnd to input channel.
	Select(frontEnd, channel uint8) error

	// ReadSample performs one conversion on frontEnd's selected input.
	ReadSample(frontEnd uint8) (uint32, error)
}

// RefSamples is the size of the reference-channel sample ring
const RefSamples = 50

// ReferenceSource exposes the free-running reference-channel buffer.
type ReferenceSource interface {
	// Calibration returns the factory calibration code of the reference.
	Calibration() uint16

	// Snapshot copies the current ring contents into dst.
	Snapshot(dst *[RefSamples]uint16)
}

// SerialPort is the telemetry transmit path.
type SerialPort interface {
	// Transmit sends p, giving up after timeout. A timeout returns
	// ErrTransmitTimeout.
	Transmit(p []byte, timeout time.Duration) error
}

// Global singletons used by core code.
var (
	actuatorDriver  ActuatorDriver
	analogSource    AnalogSource
	referenceSource ReferenceSource
	serialPort      SerialPort
)

// SetActuatorDriver is called by target-specific code to register its driver.
func SetActuatorDriver(d ActuatorDriver) {
	actuatorDriver = d
}

// MustActuator returns the configured driver or panics if missing.
func MustActuator() ActuatorDriver {
	if actuatorDriver == nil {
		panic("actuator driver not configured")
	}
	return actuatorDriver
}

// SetAnalogSource is called by target-specific code to register its front-ends.
func SetAnalogSource(s AnalogSource) {
	analogSource = s
}

// MustAnalog returns the configured analog source or panics if missing.
func MustAnalog() AnalogSource {
	if analogSource == nil {
		panic("analog source not configured")
	}
	return analogSource
}

// SetReferenceSource is called by target-specific code to register the reference ring.
func SetReferenceSource(s ReferenceSource) {
	referenceSource = s
}

// MustReference returns the configured reference source or panics if missing.
func MustReference() ReferenceSource {
	if referenceSource == nil {
		panic("reference source not configured")
	}
	return referenceSource
}

// SetSerialPort is called by target-specific code to register the telemetry port.
func SetSerialPort(p SerialPort) {
	serialPort = p
}

// MustSerial returns the configured port or panics if missing.
func MustSerial() SerialPort {
	if serialPort == nil {
		panic("serial port not configured")
	}
	return serialPort
}
