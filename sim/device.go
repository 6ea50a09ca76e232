// Package sim runs the firmware core against simulated hardware: an
// actuator bank, two analog front-ends, the reference ring and a
// loopback serial port, with goroutines standing in for the interrupts.
package sim

import (
	"context"
	"sync"
	"time"

	"haptix/core"
)

// Config tunes the simulation
type Config struct {
	ScanInterval time.Duration // Minimum time per scan cycle
	Noise        float64       // Analog noise, fraction of full scale
	SupplyVolts  float64       // Simulated supply seen by the reference
	Seed         int64
}

// DefaultConfig returns a simulation pacing scans like the hardware:
// sixteen conversions plus a 76-byte frame at 115200 baud
func DefaultConfig() Config {
	return Config{
		ScanInterval: 8 * time.Millisecond,
		Noise:        0.002,
		SupplyVolts:  3.3,
		Seed:         1,
	}
}

// Device is a complete simulated board
type Device struct {
	Firmware  *core.Firmware
	Actuators *Actuators
	Analog    *Analog
	Reference *core.ReferenceRing
	Port      *Port

	cfg    Config
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewDevice builds a board with firmware wired to the simulated parts
func NewDevice(cfg Config) *Device {
	def := DefaultConfig()
	if cfg.SupplyVolts == 0 {
		cfg.SupplyVolts = def.SupplyVolts
	}

	d := &Device{
		Actuators: NewActuators(),
		Reference: NewReference(uint32(cfg.SupplyVolts * 1e6)),
		Port:      NewPort(64),
		cfg:       cfg,
	}
	d.Analog = NewAnalog(d.Actuators, cfg.Noise, cfg.Seed)

	d.Firmware = core.NewFirmware(core.Config{
		Actuator:  d.Actuators,
		Analog:    d.Analog,
		Reference: d.Reference,
		Port:      d.Port,
	})
	d.Port.Attach(d.Firmware.Receiver)
	return d
}

// Start runs the tick interrupt and the superloop until ctx ends or
// Close is called
func (d *Device) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.Firmware.Start()

	d.wg.Add(3)
	go d.tickLoop(ctx)
	go d.referenceLoop(ctx)
	go d.scanLoop(ctx)
}

// Close stops the simulation and the port
func (d *Device) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	d.Port.Close()
	d.wg.Wait()
	return nil
}

func (d *Device) tickLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(time.Second / core.TickHz)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Firmware.Tick()
		}
	}
}

// referenceLoop plays the free-running reference conversion
func (d *Device) referenceLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	code := ReferenceCode(uint32(d.cfg.SupplyVolts * 1e6))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Reference.Push(code)
		}
	}
}

func (d *Device) scanLoop(ctx context.Context) {
	defer d.wg.Done()

	for {
		start := time.Now()
		d.Firmware.ScanCycle()

		wait := d.cfg.ScanInterval - time.Since(start)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
