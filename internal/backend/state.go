package backend

// Lifecycle state of a supervised backend process.
//
// Transitions are linear: Idle → Starting → Ready on success, or
// Idle → Starting → Failed when any start step fails. Ready and Failed
// transition to Stopped on explicit stop or owner teardown. Stopped is
// terminal.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateReady    State = "ready"
	StateFailed   State = "failed"
	StateStopped  State = "stopped"
)

// Reports whether the state admits a start transition. A failed start
// leaves the child killed and the handle cleared, so a fresh start from
// Failed is safe.
func (s State) CanStart() bool {
	return s == StateIdle || s == StateFailed
}

// Reports whether the backend reached readiness and has not been stopped.
func (s State) Running() bool {
	return s == StateReady
}
