package dinit

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrReadyTimeout indicates a readiness probe did not succeed within
	// its timeout
	ErrReadyTimeout = errors.New("dinit: readiness timeout")

	// ErrNotDirectory indicates the definition path is not a directory
	ErrNotDirectory = errors.New("dinit: not a directory")
)

// DefinitionReason classifies what went wrong inside one definition file.
type DefinitionReason int

const (
	// ReasonSyntax is a malformed line in the definition file
	ReasonSyntax DefinitionReason = iota
	// ReasonMissingField is a required directive that was absent
	ReasonMissingField
	// ReasonBadValue is a directive with an unusable value
	ReasonBadValue
	// ReasonDuplicate is a service name already present in the registry
	ReasonDuplicate
	// ReasonIO is a filesystem failure while reading the definition
	ReasonIO
)

// String returns the string representation of a DefinitionReason
func (r DefinitionReason) String() string {
	switch r {
	case ReasonSyntax:
		return "syntax"
	case ReasonMissingField:
		return "missing field"
	case ReasonBadValue:
		return "bad value"
	case ReasonDuplicate:
		return "duplicate"
	case ReasonIO:
		return "io"
	default:
		return "unknown"
	}
}

// DefinitionError reports a malformed or incomplete service definition. It is
// fatal: the loader never returns a registry containing a service that failed
// to parse.
type DefinitionError struct {
	// File is the path of the offending definition file
	File string
	// Service is the service name, when known
	Service string
	// Reason classifies the failure
	Reason DefinitionReason
	// Line is the 1-based line number, when applicable
	Line int
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *DefinitionError) Error() string {
	loc := e.File
	if loc == "" {
		loc = e.Service
	}
	if e.Line > 0 {
		return fmt.Sprintf("dinit: definition %s:%d (%s): %v", loc, e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("dinit: definition %s (%s): %v", loc, e.Reason, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// UnresolvedDependencyError reports a declared dependency whose name is not
// present in the registry.
type UnresolvedDependencyError struct {
	// Service is the referrer
	Service string
	// Dependency is the missing name
	Dependency string
}

// Error returns a formatted error message
func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("dinit: service %q depends on missing service %q", e.Service, e.Dependency)
}

// CyclicDependencyError reports a dependency cycle. Cycle holds one concrete
// cycle with the entry node repeated at the end, e.g. [a b a].
type CyclicDependencyError struct {
	Cycle []string
}

// Error returns a formatted error message naming the cycle
func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dinit: dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

// UnknownTargetError reports a start target absent from the registry.
type UnknownTargetError struct {
	Target string
}

// Error returns a formatted error message
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("dinit: unknown target %q", e.Target)
}

// LaunchStage identifies which phase of a launch failed.
type LaunchStage int

const (
	// StageSpawn is process creation
	StageSpawn LaunchStage = iota
	// StageReady is the readiness probe
	StageReady
	// StageExit is a premature or non-zero exit
	StageExit
)

// String returns the string representation of a LaunchStage
func (s LaunchStage) String() string {
	switch s {
	case StageSpawn:
		return "spawn"
	case StageReady:
		return "ready"
	case StageExit:
		return "exit"
	default:
		return "unknown"
	}
}

// LaunchError records why one service ended Failed. It is non-fatal to the
// overall boot: dependents are skipped, siblings keep going.
type LaunchError struct {
	// Service is the service that failed
	Service string
	// Stage is the launch phase that failed
	Stage LaunchStage
	// ExitCode is the process exit code for StageExit failures, -1 otherwise
	ExitCode int
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *LaunchError) Error() string {
	if e.Stage == StageExit && e.ExitCode >= 0 {
		return fmt.Sprintf("dinit: service %q %s: exit code %d: %v", e.Service, e.Stage, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("dinit: service %q %s: %v", e.Service, e.Stage, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *LaunchError) Unwrap() error {
	return e.Err
}

// MultiError aggregates the errors from a whole-directory load so every bad
// definition is reported in one pass, not just the first.
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	switch len(m.Errors) {
	case 0:
		return "no errors"
	case 1:
		return m.Errors[0].Error()
	}
	msgs := make([]string, len(m.Errors))
	for i, err := range m.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n  %s", len(m.Errors), strings.Join(msgs, "\n  "))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// Unwrap exposes the accumulated errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}
