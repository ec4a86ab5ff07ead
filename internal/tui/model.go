package tui

import (
	"time"

	"github.com/tempokit/taptick/internal/model"
)

// bpmHistorySize bounds the sliding window of BPM samples shown in the
// tempo chart (one sample per display tick).
const bpmHistorySize = 120

// Model is the tap screen. All tracker access goes through the
// TempoController contract, so the same screen works against an
// embedded tracker or the socket RPC client.
type Model struct {
	tempo model.TempoController
	keys  KeyMap

	snap       model.Snapshot
	bpmHistory []float64
	lastError  string

	width  int
	height int

	updateInterval time.Duration
	tickInFlight   bool
	showHelp       bool
}

// NewModel creates the tap screen bound to the given controller.
func NewModel(tempo model.TempoController, updateInterval time.Duration) *Model {
	if updateInterval <= 0 {
		updateInterval = model.DefaultUpdateInterval
	}
	return &Model{
		tempo:          tempo,
		keys:           DefaultKeyMap(),
		updateInterval: updateInterval,
		bpmHistory:     make([]float64, 0, bpmHistorySize),
	}
}

// applySnapshot refreshes display state from a controller response.
func (m *Model) applySnapshot(snap model.Snapshot) {
	m.snap = snap
	m.lastError = ""

	m.bpmHistory = append(m.bpmHistory, snap.BPM)
	if len(m.bpmHistory) > bpmHistorySize {
		m.bpmHistory = m.bpmHistory[1:]
	}
}

// nextMeter returns the meter after the current one in picker order.
func (m *Model) nextMeter() model.Meter {
	for i, meter := range model.Meters {
		if meter == m.snap.Meter {
			return model.Meters[(i+1)%len(model.Meters)]
		}
	}
	return model.DefaultMeter
}

// toggledMethod flips the counting method shown in the snapshot.
func (m *Model) toggledMethod() model.CountMethod {
	if m.snap.Method == model.MethodBeat {
		return model.MethodMeasure
	}
	return model.MethodBeat
}
