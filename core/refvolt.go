package core

const (
	// RefMinMean is the smallest ring mean that yields a reading.
	// At or below it the estimator holds its last good value.
	RefMinMean = 100

	// RefNominalMicrovolts is the supply the calibration code was taken at
	RefNominalMicrovolts = 3300000
)

// ReferenceRing is the free-running buffer of raw reference samples.
// Push is called from the ADC completion interrupt; Snapshot copies the
// ring with interrupts masked so a reader never sees a half-written ring.
type ReferenceRing struct {
	samples [RefSamples]uint16
	head    uint8
	cal     uint16
}

// NewReferenceRing creates a ring for a reference with calibration code cal
func NewReferenceRing(cal uint16) *ReferenceRing {
	return &ReferenceRing{cal: cal}
}

// Push stores one raw sample, overwriting the oldest
func (r *ReferenceRing) Push(sample uint16) {
	state := disableInterrupts()
	r.samples[r.head] = sample
	r.head++
	if r.head == RefSamples {
		r.head = 0
	}
	restoreInterrupts(state)
}

// Calibration returns the calibration code
func (r *ReferenceRing) Calibration() uint16 {
	return r.cal
}

// Snapshot copies the ring into dst
func (r *ReferenceRing) Snapshot(dst *[RefSamples]uint16) {
	state := disableInterrupts()
	*dst = r.samples
	restoreInterrupts(state)
}

// RefEstimator turns the reference ring into a supply estimate in
// microvolts: nominal * cal / mean. A mean at or below RefMinMean never
// reaches the division; the previous value is held instead.
type RefEstimator struct {
	src  ReferenceSource
	buf  [RefSamples]uint16
	last uint32
}

// NewRefEstimator creates an estimator over src
func NewRefEstimator(src ReferenceSource) *RefEstimator {
	return &RefEstimator{src: src}
}

// LatestAverage returns the current estimate. fresh is false when the
// ring was degenerate and the last good value is returned unchanged.
func (e *RefEstimator) LatestAverage() (value uint32, fresh bool) {
	e.src.Snapshot(&e.buf)

	var sum uint32
	for _, s := range e.buf {
		sum += uint32(s)
	}
	mean := sum / RefSamples

	if mean <= RefMinMean {
		return e.last, false
	}

	e.last = uint32(uint64(RefNominalMicrovolts) * uint64(e.src.Calibration()) / uint64(mean))
	return e.last, true
}

// Last returns the last good estimate without sampling
func (e *RefEstimator) Last() uint32 {
	return e.last
}
