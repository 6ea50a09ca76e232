package sim

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"haptix/core"
	"haptix/drivers/ads1256"
)

// Analog simulates two 8-input front-ends.
//
// Every input carries a slow sine around a per-input offset plus noise.
// Front-end 0 inputs 0..4 sit next to the actuators and pick up a strong
// oscillation while the matching channel vibrates.
type Analog struct {
	mu       sync.Mutex
	selected [core.FrontEnds]uint8
	rng      *rand.Rand
	start    time.Time
	now      func() time.Time

	Actuators *Actuators // Optional vibration coupling
	Noise     float64    // Noise amplitude as a fraction of full scale
	Fail      map[[2]uint8]bool
}

var _ core.AnalogSource = (*Analog)(nil)

// NewAnalog creates a simulated front-end pair
func NewAnalog(actuators *Actuators, noise float64, seed int64) *Analog {
	return &Analog{
		rng:       rand.New(rand.NewSource(seed)),
		start:     time.Now(),
		now:       time.Now,
		Actuators: actuators,
		Noise:     noise,
	}
}

// Select routes frontEnd to input channel
func (a *Analog) Select(frontEnd, channel uint8) error {
	if frontEnd >= core.FrontEnds {
		return core.ErrFrontEndRange
	}
	if channel >= ads1256.Inputs {
		return ads1256.ErrInputRange
	}
	a.mu.Lock()
	a.selected[frontEnd] = channel
	a.mu.Unlock()
	return nil
}

// ReadSample returns one conversion as a 24-bit two's-complement code
func (a *Analog) ReadSample(frontEnd uint8) (uint32, error) {
	if frontEnd >= core.FrontEnds {
		return 0, core.ErrFrontEndRange
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	ch := a.selected[frontEnd]
	if a.Fail[[2]uint8{frontEnd, ch}] {
		return 0, ads1256.ErrDataTimeout
	}

	t := a.now().Sub(a.start).Seconds()
	input := float64(frontEnd)*ads1256.Inputs + float64(ch)

	// Fraction of full scale, -1..1
	v := 0.05*input - 0.4 + 0.1*math.Sin(2*math.Pi*(0.2+0.05*input)*t)

	if frontEnd == 0 && ch < core.NumChannels && a.Actuators != nil && a.Actuators.Vibrating(ch) {
		v += 0.3 * math.Sin(2*math.Pi*175*t)
	}

	v += a.Noise * (a.rng.Float64()*2 - 1)

	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return uint32(int32(v * ads1256.MaxCode)), nil
}
