package core

// Scheduler makes the per-channel actuator decision once per scan cycle.
//
// For each channel in index order: select it, then
//   - active waveform, countdown expired: re-arm the countdown and play
//   - active waveform, countdown running: nothing
//   - inactive waveform (0 or above 123): stop
//
// Play is edge-triggered on countdown expiry, so a waveform is not
// restarted every scan while the actuator is still running it.
type Scheduler struct {
	channels *ChannelTable
	actuator ActuatorDriver
	clock    *Clock
	stats    *Stats

	playing [NumChannels]bool // Played since the last stop
}

// NewScheduler creates a scheduler over channels driving actuator
func NewScheduler(channels *ChannelTable, actuator ActuatorDriver, clock *Clock, stats *Stats) *Scheduler {
	return &Scheduler{
		channels: channels,
		actuator: actuator,
		clock:    clock,
		stats:    stats,
	}
}

// Pass services every channel once
func (s *Scheduler) Pass() {
	for ch := uint8(0); ch < NumChannels; ch++ {
		s.service(ch)
	}
}

func (s *Scheduler) service(ch uint8) {
	// Without a successful select, Play/Stop would hit the wrong channel
	if err := s.actuator.Select(ch); err != nil {
		s.actuatorError(ch, 0)
		return
	}

	st := s.channels.Load(ch)

	if !st.Active() {
		if err := s.actuator.Stop(); err != nil {
			s.actuatorError(ch, uint32(st.WaveformID))
			return
		}
		inc(&s.stats.Stops)
		if s.playing[ch] {
			s.playing[ch] = false
			RecordEvent(EvtStop, ch, s.clock.Uptime(), uint32(st.WaveformID), 0)
		}
		return
	}

	if st.RemainingTicks != 0 {
		return
	}

	if !s.channels.Rearm(ch, st) {
		// A command landed since Load; it is acted on next cycle
		inc(&s.stats.RearmConflicts)
		return
	}

	if err := s.actuator.Play(st.WaveformID); err != nil {
		s.actuatorError(ch, uint32(st.WaveformID))
		return
	}
	inc(&s.stats.Plays)
	s.playing[ch] = true
	RecordEvent(EvtPlay, ch, s.clock.Uptime(), uint32(st.WaveformID), uint32(st.DurationTicks))
}

func (s *Scheduler) actuatorError(ch uint8, waveform uint32) {
	inc(&s.stats.ActuatorErrors)
	RecordEvent(EvtActuatorError, ch, s.clock.Uptime(), waveform, 0)
}
