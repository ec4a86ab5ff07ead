package model

import "time"

// Shared defaults used by both the service and TUI binaries.
const (
	// DefaultMaxIntervalHistory bounds the sliding window of inter-tap
	// intervals used for the rolling average.
	DefaultMaxIntervalHistory = 10
	// DefaultInactivityWait is how long the tracker waits after the last
	// tap before finalizing (or discarding) the run.
	DefaultInactivityWait = 5000 * time.Millisecond
	// DefaultUpdateInterval is the TUI display refresh cadence.
	DefaultUpdateInterval = 250 * time.Millisecond

	DefaultMeter  = MeterCommon
	DefaultMethod = MethodBeat
)
