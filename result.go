package dinit

import (
	"fmt"
	"sort"
	"strings"
)

// BootResult is the aggregate outcome of one Engine.Start call. It always
// covers every service in the resolved closure, never a partial list, and is
// the single source of truth for whether the environment came up.
type BootResult struct {
	// Target is the service that was requested
	Target string

	// Success is true iff every service in the closure reached Ready
	Success bool

	// States maps every closure member to its terminal state
	States map[string]ServiceState

	// Failures maps each Failed service to its launch error
	Failures map[string]error
}

// Failed returns the names of all services that ended Failed, sorted.
func (r *BootResult) Failed() []string {
	return r.inState(StateFailed)
}

// Skipped returns the names of all services that ended Skipped, sorted.
func (r *BootResult) Skipped() []string {
	return r.inState(StateSkipped)
}

// Ready returns the names of all services that ended Ready, sorted.
func (r *BootResult) Ready() []string {
	return r.inState(StateReady)
}

func (r *BootResult) inState(state ServiceState) []string {
	var names []string
	for name, s := range r.States {
		if s == state {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Summary returns a one-line human-readable report.
func (r *BootResult) Summary() string {
	if r.Success {
		return fmt.Sprintf("target %q: %d services ready", r.Target, len(r.States))
	}
	var parts []string
	parts = append(parts, fmt.Sprintf("%d ready", len(r.Ready())))
	if failed := r.Failed(); len(failed) > 0 {
		parts = append(parts, fmt.Sprintf("%d failed (%s)", len(failed), strings.Join(failed, ", ")))
	}
	if skipped := r.Skipped(); len(skipped) > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped (%s)", len(skipped), strings.Join(skipped, ", ")))
	}
	return fmt.Sprintf("target %q: %s", r.Target, strings.Join(parts, ", "))
}
