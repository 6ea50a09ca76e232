package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"haptix/protocol"
)

// Commander sends actuator commands from the TUI
type Commander interface {
	Play(channel, waveform uint8, duration uint16) error
	Stop(channel uint8) error
}

type keyMap struct {
	Quit     key.Binding
	Reset    key.Binding
	Pause    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Play     key.Binding
	Stop     key.Binding
	Waveform key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset stats")),
	Pause:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pause")),
	Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next channel")),
	Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev channel")),
	Play:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
	Stop:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	Waveform: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next waveform")),
}

func (k keyMap) help() string {
	var parts []string
	for _, b := range []key.Binding{k.Quit, k.Pause, k.Reset, k.Prev, k.Next, k.Waveform, k.Play, k.Stop} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Log entry
type logEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

// Messages
type tickMsg time.Time

// FrameMsg delivers a verified telemetry frame to the TUI
type FrameMsg struct {
	Frame  protocol.TelemetryFrame
	Stream protocol.StreamStats
}

// ErrMsg reports a terminal stream error to the TUI
type ErrMsg struct{ Err error }

// Model is the live telemetry view
type Model struct {
	endpoint  string
	scale     Scale
	label     string
	commander Commander

	stats   *Statistics
	last    *Sample
	paused  bool
	channel uint8
	wave    uint8
	period  uint16

	log           []logEntry
	maxLogEntries int

	width    int
	height   int
	quitting bool
}

// NewModel creates a TUI model. commander may be nil for a read-only
// view.
func NewModel(endpoint string, scale Scale, label string, commander Commander) Model {
	if label == "" {
		label = "VDDA"
	}
	return Model{
		endpoint:      endpoint,
		scale:         scale,
		label:         label,
		commander:     commander,
		stats:         NewStatistics(),
		wave:          protocol.WaveformMin,
		period:        500,
		maxLogEntries: 100,
		width:         80,
		height:        24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.stats.CalculateRates()
		return m, tickCmd()

	case FrameMsg:
		if m.paused {
			return m, nil
		}
		s := m.scale.Decode(&msg.Frame)
		m.stats.Update(s)
		m.stats.UpdateStream(msg.Stream)
		m.last = &s

	case ErrMsg:
		m.addLogEntry(fmt.Sprintf("stream error: %v", msg.Err), true)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Reset):
		m.stats.Reset()
		m.addLogEntry("statistics reset", false)

	case key.Matches(msg, keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, keys.Next):
		m.channel = (m.channel + 1) % protocol.NumChannels

	case key.Matches(msg, keys.Prev):
		m.channel = (m.channel + protocol.NumChannels - 1) % protocol.NumChannels

	case key.Matches(msg, keys.Waveform):
		m.wave++
		if m.wave > protocol.WaveformMax {
			m.wave = protocol.WaveformMin
		}

	case key.Matches(msg, keys.Play):
		m.send(true)

	case key.Matches(msg, keys.Stop):
		m.send(false)
	}
	return m, nil
}

func (m *Model) send(play bool) {
	if m.commander == nil {
		m.addLogEntry("read-only connection", true)
		return
	}

	var err error
	if play {
		err = m.commander.Play(m.channel, m.wave, m.period)
	} else {
		err = m.commander.Stop(m.channel)
	}
	if err != nil {
		m.addLogEntry(err.Error(), true)
		return
	}

	if play {
		m.addLogEntry(fmt.Sprintf("ch%d play waveform %d every %d ms", m.channel, m.wave, m.period), false)
	} else {
		m.addLogEntry(fmt.Sprintf("ch%d stop", m.channel), false)
	}
}

func (m *Model) addLogEntry(message string, isError bool) {
	m.log = append(m.log, logEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})

	if len(m.log) > m.maxLogEntries {
		m.log = m.log[len(m.log)-m.maxLogEntries:]
	}
}

func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("HAPTIX - TELEMETRY"))
	s.WriteString("\n")
	mode := "live"
	if m.paused {
		mode = "paused"
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | %s", m.endpoint, mode)))
	s.WriteString("\n\n")

	// Statistics
	m.stats.CalculateRates()
	statsContent := strings.Builder{}
	fmt.Fprintf(&statsContent, "%s %s   %s %s   %s %s\n",
		labelStyle.Render("Frames:"), valueStyle.Render(fmt.Sprintf("%d", m.stats.Frames)),
		labelStyle.Render("Rate:"), valueStyle.Render(fmt.Sprintf("%.1f/s", m.stats.FrameRate)),
		labelStyle.Render("Checksum errors:"), m.errorValue(m.stats.ChecksumErrors),
	)
	fmt.Fprintf(&statsContent, "%s %s   %s %s",
		labelStyle.Render("Dropped bytes:"), m.errorValue(m.stats.DroppedBytes),
		labelStyle.Render("Timestamp gaps:"), m.errorValue(m.stats.TimestampGaps),
	)
	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Latest frame
	if m.last != nil {
		frame := strings.Builder{}
		fmt.Fprintf(&frame, "%s %s   %s %s\n",
			labelStyle.Render("Timestamp:"), valueStyle.Render(fmt.Sprintf("%d ms", m.last.Timestamp)),
			labelStyle.Render(m.label+":"), valueStyle.Render(fmt.Sprintf("%.4f V", m.last.Reference)),
		)
		for ch := 0; ch < protocol.TelemetryChannelsPer; ch++ {
			v0 := m.last.Volts[ch]
			v1 := m.last.Volts[protocol.TelemetryChannelsPer+ch]
			fmt.Fprintf(&frame, "%s %s   %s %s   %s\n",
				labelStyle.Render(fmt.Sprintf("FE0.%d", ch)), valueStyle.Render(fmt.Sprintf("%+8.4f V", v0)),
				labelStyle.Render(fmt.Sprintf("FE1.%d", ch)), valueStyle.Render(fmt.Sprintf("%+8.4f V", v1)),
				headerStyle.Render(fmt.Sprintf("rms %.4f / %.4f", m.stats.Channels[ch].RMS(), m.stats.Channels[protocol.TelemetryChannelsPer+ch].RMS())),
			)
		}
		s.WriteString(boxStyle.Render(strings.TrimRight(frame.String(), "\n")))
		s.WriteString("\n\n")
	} else {
		s.WriteString(warningStyle.Render("Waiting for telemetry..."))
		s.WriteString("\n\n")
	}

	// Actuator control
	s.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		labelStyle.Render("Channel:"), valueStyle.Render(fmt.Sprintf("%d", m.channel)),
		labelStyle.Render("Waveform:"), valueStyle.Render(fmt.Sprintf("%d", m.wave)),
		labelStyle.Render("Period:"), valueStyle.Render(fmt.Sprintf("%d ms", m.period)),
	))
	s.WriteString(headerStyle.Render(keys.help()))
	s.WriteString("\n\n")

	// Event log
	logHeight := m.height - 24
	if logHeight < 3 {
		logHeight = 3
	}
	start := len(m.log) - logHeight
	if start < 0 {
		start = 0
	}

	logContent := strings.Builder{}
	if len(m.log) == 0 {
		logContent.WriteString(headerStyle.Render("(no events yet)"))
	}
	for _, entry := range m.log[start:] {
		ts := headerStyle.Render(entry.timestamp.Format("15:04:05.000"))
		if entry.isError {
			fmt.Fprintf(&logContent, "%s %s\n", ts, errorStyle.Render("✗ "+entry.message))
		} else {
			fmt.Fprintf(&logContent, "%s %s\n", ts, warningStyle.Render("ℹ "+entry.message))
		}
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	s.WriteString(boxStyle.Width(width).Render(strings.TrimRight(logContent.String(), "\n")))

	return s.String()
}

func (m Model) errorValue(n uint64) string {
	if n > 0 {
		return errorStyle.Render(fmt.Sprintf("%d", n))
	}
	return valueStyle.Render("0")
}
