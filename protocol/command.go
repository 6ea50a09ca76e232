package protocol

// CommandFrame is one decoded actuator instruction.
//
// Wire layout (bytes 7..9 of the receive window are reserved):
//
//	+------+------+---------+----------+-------+-------+----------+
//	| 0x55 | 0xAA | Channel | Waveform | Dur_H | Dur_L | Checksum |
//	+------+------+---------+----------+-------+-------+----------+
//
// Checksum is the truncated 8-bit sum of bytes 2..5.
type CommandFrame struct {
	Channel    uint8
	WaveformID uint8
	Duration   uint16
}

// Checksum returns the checksum byte the frame carries on the wire
func (f CommandFrame) Checksum() uint8 {
	return Sum8([]byte{f.Channel, f.WaveformID, uint8(f.Duration >> 8), uint8(f.Duration)})
}

// DecodeCommand validates a received window and extracts the command.
// Validation is purely structural: length, header, checksum, channel range.
// On ErrChannelRange the decoded frame is returned alongside the error so
// callers can report it, but it must not be applied.
func DecodeCommand(window []byte) (CommandFrame, error) {
	if len(window) < CommandFrameLen {
		return CommandFrame{}, ErrShortFrame
	}

	if window[0] != CommandHeader0 || window[1] != CommandHeader1 {
		return CommandFrame{}, ErrBadHeader
	}

	if Sum8(window[CommandPosChannel:CommandPosChecksum]) != window[CommandPosChecksum] {
		return CommandFrame{}, ErrBadChecksum
	}

	f := CommandFrame{
		Channel:    window[CommandPosChannel],
		WaveformID: window[CommandPosWaveform],
		Duration:   uint16(window[CommandPosDurHigh])<<8 | uint16(window[CommandPosDurLow]),
	}

	if f.Channel >= NumChannels {
		return f, ErrChannelRange
	}

	return f, nil
}

// EncodeCommand builds a full receive window for f, padding included
func EncodeCommand(f CommandFrame) [RxWindowSize]byte {
	var w [RxWindowSize]byte
	w[0] = CommandHeader0
	w[1] = CommandHeader1
	w[CommandPosChannel] = f.Channel
	w[CommandPosWaveform] = f.WaveformID
	w[CommandPosDurHigh] = uint8(f.Duration >> 8)
	w[CommandPosDurLow] = uint8(f.Duration)
	w[CommandPosChecksum] = f.Checksum()
	return w
}

// IsActiveWaveform reports whether id selects a playable waveform
func IsActiveWaveform(id uint8) bool {
	return id >= WaveformMin && id <= WaveformMax
}
