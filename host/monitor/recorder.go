package monitor

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"haptix/protocol"
)

// Record is one recorded telemetry frame. Keys are small integers to
// keep the file compact.
type Record struct {
	Received  time.Time                             `cbor:"1,keyasint"`
	Timestamp uint16                                `cbor:"2,keyasint"`
	Reference uint32                                `cbor:"3,keyasint"` // Microvolts
	Samples   [protocol.TelemetryAnalogCount]uint32 `cbor:"4,keyasint"`
}

// NewRecord captures f as received at t
func NewRecord(f *protocol.TelemetryFrame, t time.Time) Record {
	r := Record{
		Received:  t,
		Timestamp: f.Timestamp(),
		Reference: f.Reference(),
	}
	for i := range r.Samples {
		r.Samples[i] = f.Analog(i)
	}
	return r
}

// Frame rebuilds the sealed telemetry frame
func (r Record) Frame() protocol.TelemetryFrame {
	var f protocol.TelemetryFrame
	f[protocol.TelemetryWordReference] = r.Reference
	copy(f[protocol.TelemetryWordFirstADC:], r.Samples[:])
	f.Seal(r.Timestamp)
	return f
}

// Recorder appends records as a CBOR sequence
type Recorder struct {
	enc   *cbor.Encoder
	count int
}

// NewRecorder creates a recorder writing to w
func NewRecorder(w io.Writer) (*Recorder, error) {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	return &Recorder{enc: em.NewEncoder(w)}, nil
}

// Write records one frame
func (r *Recorder) Write(f *protocol.TelemetryFrame, t time.Time) error {
	if err := r.enc.Encode(NewRecord(f, t)); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	r.count++
	return nil
}

// Count returns the number of records written
func (r *Recorder) Count() int {
	return r.count
}

// ReadRecords decodes a CBOR sequence written by Recorder and calls fn
// for each record
func ReadRecords(rd io.Reader, fn func(Record) error) error {
	dec := cbor.NewDecoder(rd)
	for {
		var r Record
		if err := dec.Decode(&r); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode record: %w", err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
}
