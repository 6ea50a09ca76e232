package core

import "errors"

var (
	// ErrTransmitTimeout is returned by a SerialPort whose send timed out
	ErrTransmitTimeout = errors.New("transmit timeout")

	// ErrFrontEndRange is returned for a front-end index that does not exist
	ErrFrontEndRange = errors.New("analog front-end out of range")
)
