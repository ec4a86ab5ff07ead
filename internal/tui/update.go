package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tempokit/taptick/internal/model"
)

// TickMsg drives the periodic display refresh, so the inactivity
// timeout shows up without user input.
type TickMsg time.Time

// snapshotMsg carries the result of an async controller call.
type snapshotMsg struct {
	snap model.Snapshot
	err  error
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.snapshotCmd(), m.tick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case TickMsg:
		if m.tickInFlight {
			return m, m.tick()
		}
		m.tickInFlight = true
		return m, tea.Batch(m.snapshotCmd(), m.tick())

	case snapshotMsg:
		m.tickInFlight = false
		if msg.err != nil {
			// Surface controller errors on the status line; auto-clears on
			// the next successful refresh.
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.applySnapshot(msg.snap)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Tap):
		return m, m.tapCmd()

	case key.Matches(msg, m.keys.Meter):
		return m, m.setMeterCmd(m.nextMeter())

	case key.Matches(msg, m.keys.Method):
		// Pointless while the meter is beat: the effective method is
		// forced to beat anyway, and so is the toggle's starting point.
		if !m.snap.ShowMeasureControls {
			return m, nil
		}
		return m, m.setMethodCmd(m.toggledMethod())
	}

	return m, nil
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.updateInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *Model) snapshotCmd() tea.Cmd {
	tempo := m.tempo
	return func() tea.Msg {
		snap, err := tempo.Snapshot()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) tapCmd() tea.Cmd {
	tempo := m.tempo
	return func() tea.Msg {
		snap, err := tempo.Tap()
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) setMeterCmd(meter model.Meter) tea.Cmd {
	tempo := m.tempo
	return func() tea.Msg {
		snap, err := tempo.SetMeter(meter)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m *Model) setMethodCmd(method model.CountMethod) tea.Cmd {
	tempo := m.tempo
	return func() tea.Msg {
		snap, err := tempo.SetMethod(method)
		return snapshotMsg{snap: snap, err: err}
	}
}
