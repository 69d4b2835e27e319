package dinit

import (
	"io/fs"
	"time"
)

// Definition directory and directive constants
const (
	// DefaultServiceDir is the conventional definition directory name
	DefaultServiceDir = "dinit.d"

	// DefaultTarget is the target started when none is specified
	DefaultTarget = "boot"

	// ScriptSuffix marks helper scripts in a definition directory that are
	// never parsed as service definitions
	ScriptSuffix = ".sh"
)

// Definition file directives. One definition file per service; keys may
// repeat, values accumulate.
const (
	DirectiveName         = "name"
	DirectiveType         = "type"
	DirectiveCommand      = "command"
	DirectiveLogfile      = "logfile"
	DirectiveWorkingDir   = "working-dir"
	DirectiveEnv          = "env"
	DirectiveEnvFile      = "env-file"
	DirectiveReadyFile    = "ready-file"
	DirectiveReadyTimeout = "ready-timeout"
	DirectiveDependsOn    = "depends-on"
	DirectiveWaitsFor     = "waits-for"
	DirectiveWaitsForDir  = "waits-for.d"
	DirectiveRestart      = "restart"
)

// Engine defaults
const (
	// DefaultStartDelay is how long the engine pauses after spawning a
	// process service with no readiness probe before marking it Ready
	DefaultStartDelay = 500 * time.Millisecond

	// DefaultReadyTimeout bounds the wait for a declared ready-file
	DefaultReadyTimeout = 10 * time.Second

	// DefaultConcurrency is the maximum number of services launched
	// concurrently within one dependency layer
	DefaultConcurrency = 8

	// watchStopGrace is the grace period granted to the readiness watcher
	// goroutine when tearing it down
	watchStopGrace = 100 * time.Millisecond
)

// File modes
const (
	// DirMode is the default mode for created directories
	DirMode = 0o755

	// FileMode is the default mode for created files
	FileMode fs.FileMode = 0o644
)
