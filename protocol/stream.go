package protocol

// telemetryMagicBytes is word 0 as it appears on the wire
var telemetryMagicBytes = [4]byte{0xAA, 0x55, 0x00, 0x00}

// StreamStats counts what a TelemetryStream has seen
type StreamStats struct {
	Frames         uint64 // Frames that passed verification
	ChecksumErrors uint64 // Magic found but checksum failed
	DroppedBytes   uint64 // Bytes discarded while hunting for magic
}

// TelemetryStream reassembles telemetry frames from a raw byte stream.
//
// The only framing on the wire is the fixed magic word, so the stream
// hunts for it, then requires the 16-bit checksum to match before
// accepting a frame. A false magic match costs one byte and the hunt
// resumes from the next offset.
type TelemetryStream struct {
	fifo  *FifoBuffer
	stats StreamStats
}

// NewTelemetryStream creates a stream able to buffer several frames
func NewTelemetryStream() *TelemetryStream {
	return &TelemetryStream{
		fifo: NewFifoBuffer(TelemetryFrameBytes*4 + 1),
	}
}

// Stats returns a copy of the stream counters
func (s *TelemetryStream) Stats() StreamStats {
	return s.stats
}

// Feed pushes received bytes and calls emit for every complete frame
func (s *TelemetryStream) Feed(data []byte, emit func(TelemetryFrame)) {
	for len(data) > 0 {
		n := s.fifo.Write(data)
		data = data[n:]
		s.process(emit)

		if n == 0 && s.fifo.Free() == 0 {
			// Cannot make progress; drop the oldest byte
			s.fifo.Pop(1)
			s.stats.DroppedBytes++
		}
	}
}

// Reset drops all buffered bytes
func (s *TelemetryStream) Reset() {
	s.fifo.Reset()
}

func (s *TelemetryStream) process(emit func(TelemetryFrame)) {
	data := s.fifo.Data()
	consumed := 0

	for {
		rest := data[consumed:]

		idx := indexMagic(rest)
		if idx < 0 {
			// Keep a tail that may hold the start of a split magic word
			keep := len(telemetryMagicBytes) - 1
			if drop := len(rest) - keep; drop > 0 {
				consumed += drop
				s.stats.DroppedBytes += uint64(drop)
			}
			break
		}

		if idx > 0 {
			consumed += idx
			s.stats.DroppedBytes += uint64(idx)
			rest = rest[idx:]
		}

		if len(rest) < TelemetryFrameBytes {
			break
		}

		f, err := DecodeTelemetry(rest[:TelemetryFrameBytes])
		if err != nil {
			s.stats.ChecksumErrors++
			s.stats.DroppedBytes++
			consumed++
			continue
		}

		consumed += TelemetryFrameBytes
		s.stats.Frames++
		if emit != nil {
			emit(f)
		}
	}

	if consumed > 0 {
		s.fifo.Pop(consumed)
	}
}

func indexMagic(data []byte) int {
	for i := 0; i+len(telemetryMagicBytes) <= len(data); i++ {
		if data[i] == telemetryMagicBytes[0] &&
			data[i+1] == telemetryMagicBytes[1] &&
			data[i+2] == telemetryMagicBytes[2] &&
			data[i+3] == telemetryMagicBytes[3] {
			return i
		}
	}
	return -1
}
