package dinit

// ServiceState is the lifecycle state of one service within a single boot.
// States only ever move forward; a service never revisits an earlier state.
type ServiceState int

const (
	// StatePending means the service is waiting on unmet dependencies
	StatePending ServiceState = iota
	// StateStarting means the launch was requested but readiness is not
	// yet confirmed
	StateStarting
	// StateReady means dependents may now proceed
	StateReady
	// StateFailed means the launch or readiness check failed terminally
	StateFailed
	// StateSkipped means the service was never attempted because a
	// required dependency failed
	StateSkipped
)

// State string constants
const (
	statePendingStr  = "pending"
	stateStartingStr = "starting"
	stateReadyStr    = "ready"
	stateFailedStr   = "failed"
	stateSkippedStr  = "skipped"
	stateUnknownStr  = "unknown"
)

// String returns the string representation of a ServiceState
func (s ServiceState) String() string {
	switch s {
	case StatePending:
		return statePendingStr
	case StateStarting:
		return stateStartingStr
	case StateReady:
		return stateReadyStr
	case StateFailed:
		return stateFailedStr
	case StateSkipped:
		return stateSkippedStr
	default:
		return stateUnknownStr
	}
}

// Terminal reports whether the state is one of the three terminal states
// (Ready, Failed, Skipped).
func (s ServiceState) Terminal() bool {
	switch s {
	case StateReady, StateFailed, StateSkipped:
		return true
	default:
		return false
	}
}
