package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"haptix/protocol"
)

// Styles used by the line formatter and the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Formatter renders samples as text lines
type Formatter struct {
	Scale          Scale
	ReferenceLabel string
	Plain          bool // Skip styling, for logs and pipes
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if f.Plain {
		return text
	}
	return s.Render(text)
}

func (f *Formatter) label() string {
	if f.ReferenceLabel == "" {
		return "VDDA"
	}
	return f.ReferenceLabel
}

// FormatFrame returns one line for a telemetry frame
func (f *Formatter) FormatFrame(frame *protocol.TelemetryFrame) string {
	s := f.Scale.Decode(frame)

	var b strings.Builder
	b.WriteString(f.style(headerStyle, fmt.Sprintf("[%5d ms]", s.Timestamp)))
	b.WriteString(" ")
	b.WriteString(f.style(labelStyle, f.label()+":"))
	b.WriteString(f.style(valueStyle, fmt.Sprintf("%.4fV", s.Reference)))

	for fe := 0; fe < 2; fe++ {
		b.WriteString(" ")
		b.WriteString(f.style(labelStyle, fmt.Sprintf("FE%d:", fe)))
		for ch := 0; ch < protocol.TelemetryChannelsPer; ch++ {
			v := s.Volts[fe*protocol.TelemetryChannelsPer+ch]
			b.WriteString(f.style(valueStyle, fmt.Sprintf(" %+.3f", v)))
		}
	}
	return b.String()
}

// FormatError returns one line for a stream error
func (f *Formatter) FormatError(msg string) string {
	return f.style(errorStyle, "✗ "+msg)
}

// FormatStats renders the statistics block
func (f *Formatter) FormatStats(stats *Statistics) string {
	if f.Plain {
		return stats.String()
	}
	return boxStyle.Render(strings.TrimRight(stats.String(), "\n"))
}
