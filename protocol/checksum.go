package protocol

// Sum8 returns the truncated 8-bit sum of data, as used by the command frame
func Sum8(data []byte) uint8 {
	var sum uint8
	for _, b := range data {
		sum += b
	}
	return sum
}

// Sum16 returns the truncated 16-bit sum of 32-bit words, as used by the
// telemetry frame. Each word is added in full; only the accumulator is
// truncated, which matches the firmware's uint16 accumulator. The upper
// half of a word therefore never affects the sum.
func Sum16(words []uint32) uint16 {
	var sum uint16
	for _, w := range words {
		sum += uint16(w)
	}
	return sum
}
