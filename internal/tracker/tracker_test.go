package tracker

import (
	"math"
	"testing"
	"time"

	"github.com/tempokit/taptick/internal/model"
)

// testWait keeps real timers from firing during fake-clock tests.
const testWait = time.Hour

// newTestTracker returns a tracker on a fake millisecond clock. Taps are
// driven by advancing *clock; the inactivity timer never fires on its
// own and is triggered explicitly via fireTimer.
func newTestTracker(t *testing.T, cfg Config) (*Tracker, *int64) {
	t.Helper()
	if cfg.InactivityWait == 0 {
		cfg.InactivityWait = testWait
	}
	tr := New(cfg)
	t.Cleanup(tr.Close)

	clock := new(int64)
	tr.now = func() time.Time { return time.UnixMilli(*clock) }
	return tr, clock
}

// fireTimer simulates the most recently armed inactivity timer firing.
func fireTimer(t *testing.T, tr *Tracker) {
	t.Helper()
	tr.mu.Lock()
	gen := tr.timerGen
	tr.mu.Unlock()
	tr.fireTimeout(gen)
}

func tapAt(t *testing.T, tr *Tracker, clock *int64, ms int64) model.Snapshot {
	t.Helper()
	*clock = ms
	snap, err := tr.Tap()
	if err != nil {
		t.Fatalf("Tap at %dms: %v", ms, err)
	}
	return snap
}

func snapshot(t *testing.T, tr *Tracker) model.Snapshot {
	t.Helper()
	snap, err := tr.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return snap
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFirstTapEntersCounting(t *testing.T) {
	tr, clock := newTestTracker(t, Config{})

	snap := tapAt(t, tr, clock, 0)
	if snap.State != model.StateCounting {
		t.Errorf("state after first tap = %v, want counting", snap.State)
	}
	if snap.IntervalCount != 0 {
		t.Errorf("interval count after first tap = %d, want 0", snap.IntervalCount)
	}
	if snap.BPM != 0 || snap.MPM != 0 || snap.CPM != 0 {
		t.Errorf("tempo after first tap = cpm %v bpm %v mpm %v, want all 0", snap.CPM, snap.BPM, snap.MPM)
	}
	if snap.StatusLabel != "Again" {
		t.Errorf("status label = %q, want Again", snap.StatusLabel)
	}
}

func TestIntervalCountTracksTaps(t *testing.T) {
	tr, clock := newTestTracker(t, Config{})

	for i := 0; i < 5; i++ {
		tapAt(t, tr, clock, int64(i)*500)
	}
	if got := snapshot(t, tr).IntervalCount; got != 4 {
		t.Errorf("interval count after 5 taps = %d, want 4", got)
	}
}

func TestIntervalWindowEvictsOldest(t *testing.T) {
	tr, clock := newTestTracker(t, Config{})

	// One 1000ms gap followed by fourteen 500ms gaps: the 1000ms interval
	// must be evicted, leaving a pure 500ms window.
	tapAt(t, tr, clock, 0)
	tapAt(t, tr, clock, 1000)
	ms := int64(1000)
	for i := 0; i < 14; i++ {
		ms += 500
		tapAt(t, tr, clock, ms)
	}

	snap := snapshot(t, tr)
	if snap.IntervalCount != model.DefaultMaxIntervalHistory {
		t.Fatalf("interval count = %d, want %d", snap.IntervalCount, model.DefaultMaxIntervalHistory)
	}
	if !almostEqual(snap.CPM, 120) {
		t.Errorf("CPM = %v, want 120 (1000ms outlier should be evicted)", snap.CPM)
	}
}

func TestScenarioCommonMeasure(t *testing.T) {
	tr, clock := newTestTracker(t, Config{Meter: model.MeterCommon, Method: model.MethodMeasure})

	snap := tapAt(t, tr, clock, 0)
	if snap.State != model.StateCounting || snap.BPM != 0 || snap.MPM != 0 {
		t.Fatalf("after tap 1: state %v bpm %v mpm %v, want counting 0 0", snap.State, snap.BPM, snap.MPM)
	}

	snap = tapAt(t, tr, clock, 500)
	if snap.IntervalCount != 1 {
		t.Errorf("interval count = %d, want 1", snap.IntervalCount)
	}
	if !almostEqual(snap.CPM, 120) {
		t.Errorf("CPM = %v, want 120", snap.CPM)
	}
	if !almostEqual(snap.BPM, 480) {
		t.Errorf("BPM = %v, want 480", snap.BPM)
	}
	if !almostEqual(snap.MPM, 120) {
		t.Errorf("MPM = %v, want 120", snap.MPM)
	}
}

func TestTimeoutAfterRunKeepsEstimate(t *testing.T) {
	tr, clock := newTestTracker(t, Config{Meter: model.MeterCommon, Method: model.MethodMeasure})

	tapAt(t, tr, clock, 0)
	before := tapAt(t, tr, clock, 500)

	fireTimer(t, tr)
	after := snapshot(t, tr)
	if after.State != model.StateDone {
		t.Fatalf("state after timeout = %v, want done", after.State)
	}
	if after.BPM != before.BPM || after.MPM != before.MPM {
		t.Errorf("tempo changed across timeout: bpm %v→%v mpm %v→%v", before.BPM, after.BPM, before.MPM, after.MPM)
	}

	// A second timeout on a finished run is also a no-op for the data.
	fireTimer(t, tr)
	if again := snapshot(t, tr); again.State != model.StateDone || again.BPM != after.BPM {
		t.Errorf("second timeout altered run: state %v bpm %v", again.State, again.BPM)
	}
}

func TestTimeoutAfterSingleTapResets(t *testing.T) {
	tr, clock := newTestTracker(t, Config{})

	tapAt(t, tr, clock, 0)
	fireTimer(t, tr)

	snap := snapshot(t, tr)
	if snap.State != model.StateInitial {
		t.Errorf("state after single-tap timeout = %v, want initial", snap.State)
	}
	if snap.IntervalCount != 0 || snap.BPM != 0 {
		t.Errorf("single-tap timeout left data behind: count %d bpm %v", snap.IntervalCount, snap.BPM)
	}
}

func TestBeatMeterForcesBeatMethod(t *testing.T) {
	tr, _ := newTestTracker(t, Config{Meter: model.MeterBeat, Method: model.MethodMeasure})

	snap := snapshot(t, tr)
	if snap.Method != model.MethodBeat {
		t.Errorf("effective method = %v, want beat", snap.Method)
	}
	if snap.StatusLabel != "Click on each beat" {
		t.Errorf("status label = %q, want %q", snap.StatusLabel, "Click on each beat")
	}
	if snap.ShowMeasureControls {
		t.Error("measure controls shown for beat meter")
	}
}

func TestMeasureStatusLabel(t *testing.T) {
	tests := []struct {
		meter model.Meter
		want  string
	}{
		{model.MeterDouble, "Click on downbeat of 2/4 measure"},
		{model.MeterWaltz, "Click on downbeat of 3/4 measure"},
		{model.MeterCommon, "Click on downbeat of 4/4 measure"},
	}
	for _, tt := range tests {
		t.Run(tt.meter.String(), func(t *testing.T) {
			tr, _ := newTestTracker(t, Config{Meter: tt.meter, Method: model.MethodMeasure})
			if got := snapshot(t, tr).StatusLabel; got != tt.want {
				t.Errorf("status label = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetMethodKeepsBPM(t *testing.T) {
	tr, clock := newTestTracker(t, Config{Meter: model.MeterCommon, Method: model.MethodBeat})

	tapAt(t, tr, clock, 0)
	before := tapAt(t, tr, clock, 1000)
	if !almostEqual(before.BPM, 60) || !almostEqual(before.MPM, 15) {
		t.Fatalf("before: bpm %v mpm %v, want 60 15", before.BPM, before.MPM)
	}

	after, err := tr.SetMethod(model.MethodMeasure)
	if err != nil {
		t.Fatalf("SetMethod: %v", err)
	}
	// 1000 rescales to floor(1000/1)*4 = 4000, so CPM drops to 15 while
	// the measure-method BPM formula (CPM*4) lands back on 60.
	if !almostEqual(after.CPM, 15) {
		t.Errorf("CPM after method change = %v, want 15", after.CPM)
	}
	if !almostEqual(after.BPM, 60) {
		t.Errorf("BPM after method change = %v, want 60", after.BPM)
	}
	if !almostEqual(after.MPM, 15) {
		t.Errorf("MPM after method change = %v, want 15", after.MPM)
	}
}

func TestSetMeterRescalesIntervals(t *testing.T) {
	tr, clock := newTestTracker(t, Config{Meter: model.MeterCommon, Method: model.MethodMeasure})

	tapAt(t, tr, clock, 0)
	before := tapAt(t, tr, clock, 2000) // one 2000ms measure interval

	snap, err := tr.SetMeter(model.MeterDouble)
	if err != nil {
		t.Fatalf("SetMeter: %v", err)
	}
	// 2000 ticks of a 4-beat meter become floor(2000/4)*2 = 1000 ticks of
	// a 2-beat meter: same beat rate, so BPM is preserved exactly here.
	if !almostEqual(snap.BPM, before.BPM) {
		t.Errorf("BPM across meter change = %v, want %v", snap.BPM, before.BPM)
	}
	if snap.State != model.StateCounting {
		t.Errorf("SetMeter changed state to %v", snap.State)
	}
}

// TestMeterRoundTripDrift documents the accepted precision loss of the
// truncating rescale: a common→waltz→common round trip may not restore
// intervals exactly, but the drift is bounded by the meter product.
func TestMeterRoundTripDrift(t *testing.T) {
	tr, clock := newTestTracker(t, Config{Meter: model.MeterCommon, Method: model.MethodMeasure})

	tapAt(t, tr, clock, 0)
	before := tapAt(t, tr, clock, 1001)

	if _, err := tr.SetMeter(model.MeterWaltz); err != nil {
		t.Fatalf("SetMeter(waltz): %v", err)
	}
	after, err := tr.SetMeter(model.MeterCommon)
	if err != nil {
		t.Fatalf("SetMeter(common): %v", err)
	}

	// 1001 → floor(1001/4)*3 = 750 → floor(750/3)*4 = 1000.
	beforeMs := msPerMinute / before.CPM
	afterMs := msPerMinute / after.CPM
	maxDrift := float64(model.MeterCommon.BeatsPerMeasure() * model.MeterWaltz.BeatsPerMeasure())
	if math.Abs(beforeMs-afterMs) > maxDrift {
		t.Errorf("round-trip drift = %vms, want within %vms", math.Abs(beforeMs-afterMs), maxDrift)
	}
}

func TestSetMeterSameValueIsNoOp(t *testing.T) {
	tr, clock := newTestTracker(t, Config{Meter: model.MeterCommon})

	tapAt(t, tr, clock, 0)
	before := tapAt(t, tr, clock, 999) // not a multiple of 4
	after, err := tr.SetMeter(model.MeterCommon)
	if err != nil {
		t.Fatalf("SetMeter: %v", err)
	}
	if after.CPM != before.CPM {
		t.Errorf("same-meter SetMeter changed CPM %v → %v", before.CPM, after.CPM)
	}
}

func TestSetMeterInvalid(t *testing.T) {
	tr, _ := newTestTracker(t, Config{})
	if _, err := tr.SetMeter(model.Meter(7)); err == nil {
		t.Error("expected error for invalid meter")
	}
	if _, err := tr.SetMethod(model.CountMethod(5)); err == nil {
		t.Error("expected error for invalid counting method")
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	tr, clock := newTestTracker(t, Config{})

	tapAt(t, tr, clock, 0)
	tapAt(t, tr, clock, 500)

	first := snapshot(t, tr)
	for i := 0; i < 3; i++ {
		if got := snapshot(t, tr); got != first {
			t.Fatalf("snapshot %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestSupersededTimerIsNoOp(t *testing.T) {
	tr, clock := newTestTracker(t, Config{})

	tapAt(t, tr, clock, 0)
	tr.mu.Lock()
	staleGen := tr.timerGen
	tr.mu.Unlock()

	tapAt(t, tr, clock, 500)

	// The timer armed by the first tap fires after being superseded by
	// the second tap: it must not touch the run.
	tr.fireTimeout(staleGen)

	snap := snapshot(t, tr)
	if snap.State != model.StateCounting {
		t.Errorf("stale timeout changed state to %v", snap.State)
	}
	if snap.IntervalCount != 1 {
		t.Errorf("stale timeout changed interval count to %d", snap.IntervalCount)
	}
}

func TestTapAfterDoneStartsFreshRun(t *testing.T) {
	tr, clock := newTestTracker(t, Config{})

	tapAt(t, tr, clock, 0)
	tapAt(t, tr, clock, 500)
	fireTimer(t, tr)
	if got := snapshot(t, tr).State; got != model.StateDone {
		t.Fatalf("state = %v, want done", got)
	}

	snap := tapAt(t, tr, clock, 10000)
	if snap.State != model.StateCounting {
		t.Errorf("state after restart tap = %v, want counting", snap.State)
	}
	if snap.IntervalCount != 0 {
		t.Errorf("restart tap kept %d stale intervals", snap.IntervalCount)
	}
	if snap.BPM != 0 {
		t.Errorf("restart tap kept stale BPM %v", snap.BPM)
	}
}

func TestInactivityTimerFires(t *testing.T) {
	tr := New(Config{InactivityWait: 20 * time.Millisecond})
	defer tr.Close()

	if _, err := tr.Tap(); err != nil {
		t.Fatalf("Tap: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := tr.Tap(); err != nil {
		t.Fatalf("Tap: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap, err := tr.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if snap.State == model.StateDone {
			if snap.BPM == 0 {
				t.Error("BPM cleared by timeout after a real run")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timer never fired; state still %v", snap.State)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
