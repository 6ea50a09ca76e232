package drv2605l

import (
	"errors"
	"testing"
)

// mockBus is a DRV2605L register file
type mockBus struct {
	regs   [0x23]uint8
	writes [][2]uint8
	err    error
}

func newMockBus() *mockBus {
	m := &mockBus{}
	m.regs[RegStatus] = DeviceID << StatusDeviceIDShift
	m.regs[RegMode] = ModeStandby
	return m
}

func (m *mockBus) Tx(addr uint16, w, r []byte) error {
	if m.err != nil {
		return m.err
	}
	if addr != Address {
		return errors.New("wrong address")
	}
	if len(w) == 0 {
		return nil
	}
	reg := w[0]
	if len(w) == 2 {
		m.regs[reg] = w[1]
		m.writes = append(m.writes, [2]uint8{reg, w[1]})
		// Calibration finishes instantly and returns to internal trigger
		if reg == RegGo && m.regs[RegMode] == ModeAutoCalibration {
			m.regs[RegMode] = ModeInternalTrigger
			m.regs[RegACalComp] = 0x0C
			m.regs[RegACalBEMF] = 0x8A
		}
	}
	if len(r) > 0 {
		r[0] = m.regs[reg]
	}
	return nil
}

func (m *mockBus) ReadRegister(addr uint8, r uint8, buf []byte) error  { return nil }
func (m *mockBus) WriteRegister(addr uint8, r uint8, buf []byte) error { return nil }

func TestConfigure(t *testing.T) {
	bus := newMockBus()
	d := New(bus)

	var delayed uint32
	err := d.Configure(Config{Delay: func(ms uint32) { delayed += ms }})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	want := [][2]uint8{
		{RegLibrarySel, LibraryLRA},
		{RegRatedVoltage, 0x2F},
		{RegODClamp, 0x59},
		{RegFeedback, 0xB6},
		{RegControl1, 0x93},
		{RegMode, ModeAutoCalibration},
		{RegGo, 0x01},
	}
	if len(bus.writes) != len(want) {
		t.Fatalf("Expected %d writes, got %d: %X", len(want), len(bus.writes), bus.writes)
	}
	for i := range want {
		if bus.writes[i] != want[i] {
			t.Errorf("Write %d = %X, expected %X", i, bus.writes[i], want[i])
		}
	}

	if delayed != 1000 {
		t.Errorf("Expected 1000 ms calibration wait, got %d", delayed)
	}

	cal := d.Calibration()
	if cal.Compensation != 0x0C || cal.BackEMF != 0x8A || cal.BEMFGain != 0x02 {
		t.Errorf("Unexpected calibration %+v", cal)
	}
}

func TestConfigureWrongDevice(t *testing.T) {
	bus := newMockBus()
	bus.regs[RegStatus] = 3 << StatusDeviceIDShift // DRV2604
	d := New(bus)

	if err := d.Configure(Config{Delay: func(uint32) {}}); !errors.Is(err, ErrWrongDevice) {
		t.Errorf("Expected ErrWrongDevice, got %v", err)
	}
	if len(bus.writes) != 0 {
		t.Errorf("No register may be written to a foreign device, got %X", bus.writes)
	}
}

func TestConfigureRequiresDelay(t *testing.T) {
	bus := newMockBus()
	d := New(bus)

	if err := d.Configure(Config{}); !errors.Is(err, ErrNoDelay) {
		t.Errorf("Expected ErrNoDelay, got %v", err)
	}
	if len(bus.writes) != 0 {
		t.Errorf("Calibration must not start without a delay, got writes %X", bus.writes)
	}
}

func TestConfigureBusError(t *testing.T) {
	bus := newMockBus()
	bus.err = errors.New("nack")
	d := New(bus)

	if err := d.Configure(Config{Delay: func(uint32) {}}); err == nil {
		t.Error("Expected bus error")
	}
	if d.Connected() {
		t.Error("Connected should be false on bus error")
	}
}

func TestPlayClamps(t *testing.T) {
	testCases := []struct {
		id   uint8
		want uint8
	}{
		{0, 1},
		{1, 1},
		{0x1E, 0x1E},
		{123, 123},
		{200, 123},
	}

	for _, tc := range testCases {
		bus := newMockBus()
		d := New(bus)

		if err := d.Play(tc.id); err != nil {
			t.Fatalf("Play(%d): %v", tc.id, err)
		}

		want := [][2]uint8{
			{RegMode, ModeInternalTrigger},
			{RegWaveSeq1, tc.want},
			{RegGo, 0x01},
		}
		if len(bus.writes) != len(want) {
			t.Fatalf("Play(%d): expected %d writes, got %X", tc.id, len(want), bus.writes)
		}
		for i := range want {
			if bus.writes[i] != want[i] {
				t.Errorf("Play(%d) write %d = %X, expected %X", tc.id, i, bus.writes[i], want[i])
			}
		}
	}
}

func TestStop(t *testing.T) {
	bus := newMockBus()
	bus.regs[RegMode] = ModeInternalTrigger
	d := New(bus)

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if bus.regs[RegMode] != ModeStandby {
		t.Errorf("Mode = 0x%02X, expected standby", bus.regs[RegMode])
	}

	// Already in standby: no further write
	bus.writes = nil
	if err := d.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(bus.writes) != 0 {
		t.Errorf("Stop in standby wrote %X", bus.writes)
	}
}
