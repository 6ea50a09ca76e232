package ads1256

import "errors"

var ErrFrontEndRange = errors.New("ads1256: front-end out of range")

// FrontEnds presents several converters as indexed analog front-ends.
// Samples are reported as the two's-complement bit pattern of the
// signed conversion result.
type FrontEnds []*Device

// Configure configures every converter
func (f FrontEnds) Configure(cfg Config) error {
	for _, d := range f {
		if err := d.Configure(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Select switches front-end frontEnd to input channel
func (f FrontEnds) Select(frontEnd, channel uint8) error {
	if int(frontEnd) >= len(f) {
		return ErrFrontEndRange
	}
	return f[frontEnd].SelectChannel(channel)
}

// ReadSample reads one conversion from frontEnd
func (f FrontEnds) ReadSample(frontEnd uint8) (uint32, error) {
	if int(frontEnd) >= len(f) {
		return 0, ErrFrontEndRange
	}
	v, err := f[frontEnd].ReadData()
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
