package model

import "fmt"

// TapState is the lifecycle state of a tap-counting run.
type TapState int

const (
	// StateInitial means no data: no taps yet, or reset after a timeout
	// with fewer than two taps recorded.
	StateInitial TapState = iota
	// StateFirstClick means exactly one tap since the last reset, with no
	// interval computed yet. Declared for completeness: the first tap of a
	// run lands directly in StateCounting so that the second tap can
	// compute an interval against the recorded baseline.
	StateFirstClick
	// StateCounting means two or more taps recorded and taps still
	// arriving within the inactivity window.
	StateCounting
	// StateDone means the inactivity window elapsed after a counting run;
	// the last estimate stays visible.
	StateDone
)

// String returns the human-readable name of the state.
func (s TapState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateFirstClick:
		return "first-click"
	case StateCounting:
		return "counting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Meter is the number of beats per measure. MeterBeat (1) means "no
// meter": taps are counted individually.
type Meter int

const (
	MeterBeat   Meter = 1
	MeterDouble Meter = 2
	MeterWaltz  Meter = 3
	MeterCommon Meter = 4
)

// Meters lists the selectable meters in picker order.
var Meters = []Meter{MeterBeat, MeterDouble, MeterWaltz, MeterCommon}

// BeatsPerMeasure returns the meter's beat count.
func (m Meter) BeatsPerMeasure() int { return int(m) }

// Valid reports whether m is one of the defined meters.
func (m Meter) Valid() bool {
	return m == MeterBeat || m == MeterDouble || m == MeterWaltz || m == MeterCommon
}

func (m Meter) String() string {
	switch m {
	case MeterBeat:
		return "beat"
	case MeterDouble:
		return "double"
	case MeterWaltz:
		return "waltz"
	case MeterCommon:
		return "common"
	default:
		return "unknown"
	}
}

// ParseMeter converts a config or API string into a Meter.
func ParseMeter(s string) (Meter, error) {
	switch s {
	case "beat":
		return MeterBeat, nil
	case "double":
		return MeterDouble, nil
	case "waltz":
		return MeterWaltz, nil
	case "common":
		return MeterCommon, nil
	}
	return 0, fmt.Errorf("unknown meter %q (want beat, double, waltz, or common)", s)
}

// CountMethod says whether the user taps once per beat or once per
// measure. The effective method is forced to MethodBeat whenever the
// meter is MeterBeat; "measure" is meaningless without a meter.
type CountMethod int

const (
	MethodBeat CountMethod = iota
	MethodMeasure
)

func (c CountMethod) String() string {
	switch c {
	case MethodBeat:
		return "beat"
	case MethodMeasure:
		return "measure"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the defined counting methods.
func (c CountMethod) Valid() bool {
	return c == MethodBeat || c == MethodMeasure
}

// ParseCountMethod converts a config or API string into a CountMethod.
func ParseCountMethod(s string) (CountMethod, error) {
	switch s {
	case "beat":
		return MethodBeat, nil
	case "measure":
		return MethodMeasure, nil
	}
	return 0, fmt.Errorf("unknown counting method %q (want beat or measure)", s)
}

// Snapshot is the full read-side view of a tracker, recomputed on every
// read. Presentation layers re-read it after each mutating operation
// instead of subscribing to individual fields. Method is the effective
// method: MethodBeat whenever the meter is MeterBeat.
type Snapshot struct {
	State               TapState    `json:"-"`
	StateName           string      `json:"state"`
	Meter               Meter       `json:"-"`
	MeterName           string      `json:"meter"`
	Method              CountMethod `json:"-"`
	MethodName          string      `json:"method"`
	CPM                 float64     `json:"cpm"`
	BPM                 float64     `json:"bpm"`
	MPM                 float64     `json:"mpm"`
	StatusLabel         string      `json:"status_label"`
	ShowMeasureControls bool        `json:"show_measure_controls"`
	IntervalCount       int         `json:"interval_count"`
}
