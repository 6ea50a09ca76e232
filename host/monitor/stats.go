package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/chewxy/math32"

	"haptix/protocol"
)

// ChannelStats accumulates one analog input
type ChannelStats struct {
	Count uint64
	Min   float32
	Max   float32
	sum   float64
	sumSq float64
}

func (c *ChannelStats) add(v float32) {
	if c.Count == 0 || v < c.Min {
		c.Min = v
	}
	if c.Count == 0 || v > c.Max {
		c.Max = v
	}
	c.Count++
	c.sum += float64(v)
	c.sumSq += float64(v) * float64(v)
}

// Mean returns the average voltage
func (c *ChannelStats) Mean() float32 {
	if c.Count == 0 {
		return 0
	}
	return float32(c.sum / float64(c.Count))
}

// RMS returns the root mean square voltage
func (c *ChannelStats) RMS() float32 {
	if c.Count == 0 {
		return 0
	}
	return math32.Sqrt(float32(c.sumSq / float64(c.Count)))
}

// Statistics tracks telemetry frames and error rates
type Statistics struct {
	StartTime time.Time

	Frames         uint64
	ChecksumErrors uint64
	DroppedBytes   uint64
	TimestampGaps  uint64 // Frames whose timestamp went backwards or jumped

	Reference ChannelStats
	Channels  [protocol.TelemetryAnalogCount]ChannelStats

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec

	lastTimestamp uint16
	haveTimestamp bool
	now           func() time.Time
}

// MaxTimestampGap is the largest timestamp step between consecutive
// frames not counted as a gap
const MaxTimestampGap = 1000

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	s := &Statistics{now: time.Now}
	s.StartTime = s.now()
	return s
}

// Update adds one decoded sample
func (s *Statistics) Update(sample Sample) {
	s.Frames++

	if s.haveTimestamp {
		step := sample.Timestamp - s.lastTimestamp
		if step == 0 || step > MaxTimestampGap {
			s.TimestampGaps++
		}
	}
	s.lastTimestamp = sample.Timestamp
	s.haveTimestamp = true

	s.Reference.add(sample.Reference)
	for i, v := range sample.Volts {
		s.Channels[i].add(v)
	}
}

// UpdateStream copies the reassembly counters
func (s *Statistics) UpdateStream(st protocol.StreamStats) {
	s.ChecksumErrors = st.ChecksumErrors
	s.DroppedBytes = st.DroppedBytes
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	elapsed := s.now().Sub(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.Frames) / elapsed
		s.ErrorRate = float64(s.ChecksumErrors+s.TimestampGaps) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var b strings.Builder
	fmt.Fprintf(&b, "=== Statistics (%.0f seconds) ===\n", s.now().Sub(s.StartTime).Seconds())
	fmt.Fprintf(&b, "Frames:          %8d\n", s.Frames)
	if s.ChecksumErrors > 0 {
		fmt.Fprintf(&b, "Checksum Errors: %8d\n", s.ChecksumErrors)
	}
	if s.DroppedBytes > 0 {
		fmt.Fprintf(&b, "Dropped Bytes:   %8d\n", s.DroppedBytes)
	}
	if s.TimestampGaps > 0 {
		fmt.Fprintf(&b, "Timestamp Gaps:  %8d\n", s.TimestampGaps)
	}
	fmt.Fprintf(&b, "Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	fmt.Fprintf(&b, "Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	if s.Reference.Count > 0 {
		fmt.Fprintf(&b, "Reference:       %8.4f V (min %.4f, max %.4f)\n",
			s.Reference.Mean(), s.Reference.Min, s.Reference.Max)
	}
	b.WriteString("================================\n")
	return b.String()
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := s.now
	*s = Statistics{now: now}
	s.StartTime = now()
}
