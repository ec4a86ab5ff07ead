package model

// TempoController is the narrow contract shared by the in-process
// tracker and the socket RPC client, so presentation code is
// transport-agnostic. Every mutating call returns the post-operation
// snapshot; callers refresh their display from it rather than keeping
// derived state of their own.
type TempoController interface {
	Tap() (Snapshot, error)
	Snapshot() (Snapshot, error)
	SetMeter(m Meter) (Snapshot, error)
	SetMethod(c CountMethod) (Snapshot, error)
}
