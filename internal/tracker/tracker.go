// Package tracker implements the tap-timing state machine behind the
// tempo estimate.
//
// A run starts on the first tap and collects inter-tap intervals while
// taps keep arriving within the inactivity window. When the window
// elapses the run is finalized (two or more taps) or discarded (fewer).
// Meter and counting-method changes rescale the collected intervals so
// the displayed BPM stays numerically continuous across the
// reinterpretation.
//
// States:
//   - initial: no data; no taps yet, or reset after a timeout with
//     fewer than two taps.
//   - first-click: one tap, no interval yet. Declared but not entered:
//     the first tap lands directly in counting so the second tap can
//     compute an interval against the recorded baseline.
//   - counting: two or more taps, still receiving taps in the window.
//   - done: the window elapsed after a counting run; the estimate
//     stays visible.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/tempokit/taptick/internal/model"
)

const msPerMinute = 60000

// Config holds the tunable parameters of a Tracker.
type Config struct {
	// MaxHistory bounds the interval window; the oldest interval is
	// evicted when a new one is appended past the cap. Default 10.
	MaxHistory int
	// InactivityWait is how long after the last tap the run is finalized
	// or discarded. Default 5s.
	InactivityWait time.Duration
	// Meter is the starting meter. Default common (4/4).
	Meter model.Meter
	// Method is the starting counting method. Default beat.
	Method model.CountMethod
}

// applyDefaults fills in zero-valued fields with defaults.
func (c Config) applyDefaults() Config {
	if c.MaxHistory <= 0 {
		c.MaxHistory = model.DefaultMaxIntervalHistory
	}
	if c.InactivityWait <= 0 {
		c.InactivityWait = model.DefaultInactivityWait
	}
	if !c.Meter.Valid() {
		c.Meter = model.DefaultMeter
	}
	if !c.Method.Valid() {
		c.Method = model.DefaultMethod
	}
	return c
}

// Tracker owns all state of one counting session. It is safe for
// concurrent use: every operation runs under one mutex, and the
// inactivity timer callback carries a generation number so a timer
// superseded by a later tap is a no-op ("tap always wins").
type Tracker struct {
	mu        sync.Mutex
	cfg       Config
	state     model.TapState
	meter     model.Meter
	method    model.CountMethod // stored preference; effective may differ
	intervals []int64           // inter-tap gaps in ms, most-recent-last
	lastTapMs int64             // baseline for the next interval; 0 = no run
	timer     *time.Timer
	timerGen  uint64

	now func() time.Time // swapped in tests
}

// New creates a Tracker in the initial state. Zero-valued config fields
// are replaced with defaults.
func New(cfg Config) *Tracker {
	cfg = cfg.applyDefaults()
	return &Tracker{
		cfg:    cfg,
		state:  model.StateInitial,
		meter:  cfg.Meter,
		method: cfg.Method,
		now:    time.Now,
	}
}

// Tap records one tap now and re-arms the inactivity timer. The first
// tap of a run only sets the baseline; every later tap appends the gap
// since the previous tap to the interval window. Callers should re-read
// State, CPM, BPM, MPM and StatusLabel from the returned snapshot.
func (t *Tracker) Tap() (model.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	nowMs := t.now().UnixMilli()

	switch t.state {
	case model.StateInitial, model.StateDone:
		// First tap of a new run: fresh baseline, no interval yet.
		t.intervals = t.intervals[:0]
		t.lastTapMs = nowMs
	case model.StateFirstClick, model.StateCounting:
		delta := nowMs - t.lastTapMs
		t.lastTapMs = nowMs
		t.intervals = append(t.intervals, delta)
		if len(t.intervals) > t.cfg.MaxHistory {
			t.intervals = t.intervals[1:]
		}
	}
	t.state = model.StateCounting

	t.armTimerLocked()
	return t.snapshotLocked(), nil
}

// SetMeter changes the meter and rescales every stored interval from
// ticks of the old meter to ticks of the new one, so the underlying BPM
// estimate stays numerically constant. The rescale uses truncating
// integer division; repeated changes can drift the estimate slightly.
// State and the inactivity timer are untouched; BPM, MPM, StatusLabel
// and ShowMeasureControls may change.
func (t *Tracker) SetMeter(m model.Meter) (model.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !m.Valid() {
		return t.snapshotLocked(), fmt.Errorf("tracker: invalid meter %d", int(m))
	}
	if m != t.meter {
		t.rescaleLocked(t.meter.BeatsPerMeasure(), m.BeatsPerMeasure())
		t.meter = m
	}
	return t.snapshotLocked(), nil
}

// SetMethod changes the stored counting preference. Switching to beat
// counting rescales intervals from the current meter down to 1; switching
// to measure counting rescales from 1 up to the current meter. The
// preference is ignored effectively while the meter is beat. State and
// the inactivity timer are untouched; BPM, MPM and StatusLabel may change.
func (t *Tracker) SetMethod(c model.CountMethod) (model.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !c.Valid() {
		return t.snapshotLocked(), fmt.Errorf("tracker: invalid counting method %d", int(c))
	}
	if c != t.method {
		if c == model.MethodBeat {
			t.rescaleLocked(t.meter.BeatsPerMeasure(), 1)
		} else {
			t.rescaleLocked(1, t.meter.BeatsPerMeasure())
		}
		t.method = c
	}
	return t.snapshotLocked(), nil
}

// Snapshot returns the current derived outputs. Reads are idempotent:
// repeated calls without a mutating operation return identical values.
func (t *Tracker) Snapshot() (model.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(), nil
}

// Close cancels any pending inactivity timer.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.timerGen++
}

// armTimerLocked releases the prior timer and arms a fresh one. Bumping
// the generation first means an already-fired callback that lost the
// race for the lock sees a stale generation and does nothing.
func (t *Tracker) armTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timerGen++
	gen := t.timerGen
	t.timer = time.AfterFunc(t.cfg.InactivityWait, func() {
		t.fireTimeout(gen)
	})
}

// fireTimeout applies the inactivity transition, unless the timer that
// scheduled it has been superseded by a later tap.
func (t *Tracker) fireTimeout(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.timerGen {
		return
	}

	switch t.state {
	case model.StateInitial, model.StateFirstClick:
		t.intervals = t.intervals[:0]
		t.lastTapMs = 0
		t.state = model.StateInitial
	case model.StateCounting, model.StateDone:
		// A counting run with one tap has no intervals: nothing to show,
		// treat it like no data at all.
		if len(t.intervals) == 0 {
			t.intervals = t.intervals[:0]
			t.lastTapMs = 0
			t.state = model.StateInitial
			return
		}
		t.state = model.StateDone
	}
}

// rescaleLocked converts every stored interval from ticks of oldVal to
// ticks of newVal. Truncating division loses precision when an interval
// is not an exact multiple of oldVal; repeated meter changes can drift
// the estimate slightly.
func (t *Tracker) rescaleLocked(oldVal, newVal int) {
	if oldVal == newVal {
		return
	}
	for i, iv := range t.intervals {
		t.intervals[i] = iv / int64(oldVal) * int64(newVal)
	}
}

func (t *Tracker) effectiveMethodLocked() model.CountMethod {
	if t.meter == model.MeterBeat {
		return model.MethodBeat
	}
	return t.method
}

// cpmLocked returns clicks per minute: 0 with no data, otherwise
// 60000 over the mean stored interval.
func (t *Tracker) cpmLocked() float64 {
	if len(t.intervals) == 0 {
		return 0
	}
	var sum int64
	for _, iv := range t.intervals {
		sum += iv
	}
	avg := float64(sum) / float64(len(t.intervals))
	if avg <= 0 {
		return 0
	}
	return msPerMinute / avg
}

func (t *Tracker) statusLabelLocked() string {
	switch t.state {
	case model.StateFirstClick, model.StateCounting:
		return "Again"
	}
	if t.effectiveMethodLocked() == model.MethodMeasure {
		return fmt.Sprintf("Click on downbeat of %d/4 measure", t.meter.BeatsPerMeasure())
	}
	return "Click on each beat"
}

func (t *Tracker) snapshotLocked() model.Snapshot {
	cpm := t.cpmLocked()
	eff := t.effectiveMethodLocked()
	beats := float64(t.meter.BeatsPerMeasure())

	var bpm, mpm float64
	if eff == model.MethodMeasure {
		bpm = cpm * beats
		mpm = cpm
	} else {
		bpm = cpm
		mpm = cpm / beats
	}

	return model.Snapshot{
		State:               t.state,
		StateName:           t.state.String(),
		Meter:               t.meter,
		MeterName:           t.meter.String(),
		Method:              eff,
		MethodName:          eff.String(),
		CPM:                 cpm,
		BPM:                 bpm,
		MPM:                 mpm,
		StatusLabel:         t.statusLabelLocked(),
		ShowMeasureControls: t.meter != model.MeterBeat,
		IntervalCount:       len(t.intervals),
	}
}
