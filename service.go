package dinit

import (
	"fmt"
	"time"
)

// Kind categorizes services by how the engine brings them up.
type Kind int

const (
	// KindUnknown represents an unrecognized service type
	KindUnknown Kind = iota
	// KindProcess is a long-running process; it is Ready once spawned, or
	// once its readiness probe succeeds when one is declared
	KindProcess
	// KindScripted is a one-shot command run to completion; it is Ready
	// iff the command exits zero
	KindScripted
	// KindInternal is a virtual grouping node (a target such as "boot")
	// with no command of its own; it is Ready once all its dependencies
	// are Ready
	KindInternal
)

// Kind string constants
const (
	kindProcessStr  = "process"
	kindScriptedStr = "scripted"
	kindInternalStr = "internal"
	kindUnknownStr  = "unknown"
)

// String returns the on-disk name of a Kind
func (k Kind) String() string {
	switch k {
	case KindProcess:
		return kindProcessStr
	case KindScripted:
		return kindScriptedStr
	case KindInternal:
		return kindInternalStr
	default:
		return kindUnknownStr
	}
}

// KindFromString maps an on-disk type value to a Kind. "target" is accepted
// as an alias for internal.
func KindFromString(s string) (Kind, bool) {
	switch s {
	case kindProcessStr:
		return KindProcess, true
	case kindScriptedStr:
		return KindScripted, true
	case kindInternalStr, "target":
		return KindInternal, true
	default:
		return KindUnknown, false
	}
}

// RestartPolicy describes what the engine does when a service exits after it
// reached Ready. Only RestartNone is supported: a crashed process is not
// relaunched.
type RestartPolicy int

const (
	// RestartNone never relaunches a crashed service
	RestartNone RestartPolicy = iota
)

// String returns the on-disk name of a RestartPolicy
func (p RestartPolicy) String() string {
	return "none"
}

// Service is one manageable unit parsed from a definition file.
type Service struct {
	// Name uniquely identifies the service within a registry. It defaults
	// to the definition file name.
	Name string

	// Kind selects the launch behavior
	Kind Kind

	// Command is the argv to execute. Empty for internal services.
	Command []string

	// WorkingDir is the working directory for the launched process.
	// Empty means the engine's own working directory.
	WorkingDir string

	// Env contains environment overrides applied on top of the engine's
	// environment (and on top of EnvFile values)
	Env map[string]string

	// EnvFile is an optional dotenv file, resolved relative to the
	// definition directory, whose entries are merged into Env
	EnvFile string

	// Logfile receives the process's combined stdout and stderr. Required
	// for process and scripted services.
	Logfile string

	// ReadyFile, when set, declares a readiness probe: the service is
	// Ready once this path exists
	ReadyFile string

	// ReadyTimeout bounds the ReadyFile wait. Zero means the engine
	// default.
	ReadyTimeout time.Duration

	// DependsOn lists services that must be Ready before this one starts
	DependsOn []string

	// Restart is the restart policy (always RestartNone)
	Restart RestartPolicy

	// waitsForDirs holds waits-for.d directives pending expansion by the
	// loader; only legal on internal services
	waitsForDirs []string
}

// Validate checks the structural invariants of a single definition,
// independent of the rest of the registry.
func (s *Service) Validate() error {
	if s.Name == "" {
		return &DefinitionError{Service: s.Name, Reason: ReasonMissingField, Err: fmt.Errorf("service has empty name")}
	}
	switch s.Kind {
	case KindProcess, KindScripted:
		if len(s.Command) == 0 {
			return &DefinitionError{Service: s.Name, Reason: ReasonMissingField, Err: fmt.Errorf("service %q of type %s has no command", s.Name, s.Kind)}
		}
		if s.Logfile == "" {
			return &DefinitionError{Service: s.Name, Reason: ReasonMissingField, Err: fmt.Errorf("service %q of type %s must specify a logfile", s.Name, s.Kind)}
		}
	case KindInternal:
		if len(s.Command) != 0 {
			return &DefinitionError{Service: s.Name, Reason: ReasonBadValue, Err: fmt.Errorf("internal service %q must not declare a command", s.Name)}
		}
	default:
		return &DefinitionError{Service: s.Name, Reason: ReasonBadValue, Err: fmt.Errorf("service %q has unknown type", s.Name)}
	}
	if len(s.waitsForDirs) > 0 && s.Kind != KindInternal {
		return &DefinitionError{Service: s.Name, Reason: ReasonBadValue, Err: fmt.Errorf("service %q declares waits-for.d but is not internal", s.Name)}
	}
	return nil
}
