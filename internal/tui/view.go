package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tempokit/taptick/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	bpmStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)
)

// View renders the tap screen.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing tap screen..."
	}
	if m.width < 50 || m.height < 14 {
		return "Terminal too small. Resize to at least 50x14."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var sections []string
	sections = append(sections, titleStyle.Render("taptick"))
	sections = append(sections, m.renderTempoPanel())
	sections = append(sections, statusStyle.Render(m.snap.StatusLabel))
	sections = append(sections, m.renderChart())
	sections = append(sections, m.renderStatusLine())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTempoPanel renders the numeric readouts and configuration.
func (m *Model) renderTempoPanel() string {
	bpm := bpmStyle.Render(fmt.Sprintf("%6.1f", m.snap.BPM))
	readouts := fmt.Sprintf("BPM %s    %s %6.1f    %s %6.1f",
		bpm,
		labelStyle.Render("MPM"), m.snap.MPM,
		labelStyle.Render("CPM"), m.snap.CPM,
	)

	meterDesc := m.snap.MeterName
	if m.snap.ShowMeasureControls {
		meterDesc = fmt.Sprintf("%s (%d/4)", m.snap.MeterName, m.snap.Meter.BeatsPerMeasure())
	}

	config := labelStyle.Render(fmt.Sprintf("state %s   meter %s   counting per %s",
		m.snap.StateName, meterDesc, m.snap.MethodName))

	return panelStyle.Width(m.contentWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, readouts, config),
	)
}

// renderStatusLine renders the bottom hint/error line.
func (m *Model) renderStatusLine() string {
	if m.lastError != "" {
		return errorStyle.Render("error: " + m.lastError)
	}

	hints := []string{
		m.keys.Tap.Help().Key + " " + m.keys.Tap.Help().Desc,
		m.keys.Meter.Help().Key + " " + m.keys.Meter.Help().Desc,
	}
	if m.snap.ShowMeasureControls {
		hints = append(hints, m.keys.Method.Help().Key+" "+m.keys.Method.Help().Desc)
	}
	hints = append(hints,
		m.keys.Help.Help().Key+" "+m.keys.Help.Help().Desc,
		m.keys.Quit.Help().Key+" "+m.keys.Quit.Help().Desc,
	)
	return helpStyle.Render(strings.Join(hints, "  •  "))
}

// renderHelp renders the full-screen help overlay.
func (m *Model) renderHelp() string {
	rows := [][2]string{
		{m.keys.Tap.Help().Key, "tap on each beat (or each downbeat)"},
		{m.keys.Meter.Help().Key, "cycle meter: beat → 2/4 → 3/4 → 4/4"},
		{m.keys.Method.Help().Key, "toggle tap-per-beat / tap-per-measure"},
		{m.keys.Help.Help().Key, "close this help"},
		{m.keys.Quit.Help().Key, "quit"},
	}

	var lines []string
	lines = append(lines, titleStyle.Render("taptick help"), "")
	lines = append(lines,
		"Tap along with the music; the tempo estimate settles after a",
		"few taps. Pausing for "+fmt.Sprintf("%v", model.DefaultInactivityWait)+" finalizes the run.",
		"")
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("  %-8s %s", statusStyle.Render(r[0]), r[1]))
	}

	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block)
}

// contentWidth returns the width available for panels.
func (m *Model) contentWidth() int {
	w := m.width - 2
	if w < 46 {
		w = 46
	}
	return w
}
