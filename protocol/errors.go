package protocol

import "errors"

var (
	ErrShortFrame   = errors.New("command frame too short")
	ErrBadHeader    = errors.New("command frame header mismatch")
	ErrBadChecksum  = errors.New("command frame checksum mismatch")
	ErrChannelRange = errors.New("command channel out of range")
	ErrBadMagic     = errors.New("telemetry frame magic mismatch")
	ErrTelemetrySum = errors.New("telemetry frame checksum mismatch")
)
