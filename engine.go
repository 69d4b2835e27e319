package dinit

import (
	"context"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/axondata/go-dinit/pkg/logging"
)

// Engine executes a resolved start order and reports the aggregate outcome.
// It owns the per-boot state map and the processes it spawned; there is no
// package-level process table.
//
// An Engine is invoked once per target. States are created fresh for each
// Start call; only the spawned processes survive across the call.
type Engine struct {
	registry *Registry

	concurrency  int
	startDelay   time.Duration
	readyTimeout time.Duration
	pidDir       string

	// mu guards states, failures and procs against concurrent launch
	// goroutines
	mu       sync.Mutex
	states   map[string]ServiceState
	failures map[string]error
	procs    map[string]*os.Process
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithConcurrency caps the number of services launched concurrently within
// one dependency layer
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// WithStartDelay sets the pause after spawning a process service with no
// readiness probe before it is marked Ready. Zero disables the pause.
func WithStartDelay(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.startDelay = d
	}
}

// WithReadyTimeout sets the default bound on ready-file waits for services
// that do not declare their own ready-timeout
func WithReadyTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.readyTimeout = d
	}
}

// WithPIDDir makes the engine record each spawned PID in <dir>/<name>.pid
func WithPIDDir(dir string) EngineOption {
	return func(e *Engine) {
		e.pidDir = dir
	}
}

// NewEngine creates an Engine over a validated registry and applies any
// provided options.
func NewEngine(registry *Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry:     registry,
		concurrency:  DefaultConcurrency,
		startDelay:   DefaultStartDelay,
		readyTimeout: DefaultReadyTimeout,
		procs:        make(map[string]*os.Process),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.concurrency < 1 {
		e.concurrency = 1
	}

	return e
}

// Start brings up the named target: every service in its dependency closure
// is launched in dependency order, layer by layer, with services inside a
// layer starting concurrently.
//
// Structural failures (an unknown target) return an error before any process
// starts. Per-service launch failures do not: the service is recorded as
// Failed, its transitive dependents become Skipped, and the aggregate is
// returned as a BootResult covering the whole closure. Services that started
// successfully are left running regardless of the overall outcome.
func (e *Engine) Start(ctx context.Context, target string) (*BootResult, error) {
	plan, err := Resolve(e.registry, target)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.states = make(map[string]ServiceState, len(plan.Closure))
	e.failures = make(map[string]error)
	for _, name := range plan.Closure {
		e.states[name] = StatePending
	}
	e.mu.Unlock()

	logging.Info("Engine", "Starting target %q: %d services in %d layers",
		target, len(plan.Closure), len(plan.Layers))

	for _, layer := range plan.Layers {
		g := new(errgroup.Group)
		g.SetLimit(e.concurrency)

		for _, name := range layer {
			svc, _ := e.registry.Get(name)
			if dep, blocked := e.blockedBy(svc); blocked {
				e.setState(svc.Name, StateSkipped)
				logging.Warn("Engine", "Skipping service %q: dependency %q did not come up",
					svc.Name, dep)
				continue
			}
			g.Go(func() error {
				e.startService(ctx, svc)
				return nil
			})
		}

		// Launch failures live in the state map, not in goroutine errors.
		_ = g.Wait()
	}

	return e.result(plan), nil
}

// startService drives one service to a terminal state.
func (e *Engine) startService(ctx context.Context, svc *Service) {
	if svc.Kind == KindInternal {
		e.setState(svc.Name, StateReady)
		logging.Info("Engine", "Target %q reached", svc.Name)
		return
	}

	e.setState(svc.Name, StateStarting)
	logging.Info("Engine", "Starting service %q (type=%s)", svc.Name, svc.Kind)

	var err error
	switch svc.Kind {
	case KindScripted:
		err = e.runScripted(ctx, svc)
	case KindProcess:
		err = e.runProcess(ctx, svc)
	}
	if err != nil {
		e.fail(svc.Name, err)
		logging.Error("Engine", err, "Service %q failed to start", svc.Name)
		return
	}

	e.setState(svc.Name, StateReady)
	logging.Info("Engine", "Service %q started successfully", svc.Name)
}

// blockedBy reports the first dependency of svc that ended Failed or Skipped.
// Dependencies live in earlier layers, so their states are terminal by the
// time svc's layer runs.
func (e *Engine) blockedBy(svc *Service) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, dep := range svc.DependsOn {
		switch e.states[dep] {
		case StateFailed, StateSkipped:
			return dep, true
		}
	}
	return "", false
}

func (e *Engine) setState(name string, state ServiceState) {
	e.mu.Lock()
	e.states[name] = state
	e.mu.Unlock()
}

func (e *Engine) fail(name string, err error) {
	e.mu.Lock()
	e.states[name] = StateFailed
	e.failures[name] = err
	e.mu.Unlock()
}

func (e *Engine) rememberProcess(name string, p *os.Process) {
	e.mu.Lock()
	e.procs[name] = p
	e.mu.Unlock()
}

// State returns the current state of a service within the active boot.
func (e *Engine) State(name string) (ServiceState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	state, ok := e.states[name]
	return state, ok
}

// Processes returns the processes spawned by this engine, keyed by service
// name. The engine does not monitor them after boot; callers own any
// signalling or cleanup.
func (e *Engine) Processes() map[string]*os.Process {
	e.mu.Lock()
	defer e.mu.Unlock()
	procs := make(map[string]*os.Process, len(e.procs))
	for name, p := range e.procs {
		procs[name] = p
	}
	return procs
}

// result snapshots the terminal states of the closure into a BootResult.
func (e *Engine) result(plan *Plan) *BootResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	states := make(map[string]ServiceState, len(plan.Closure))
	success := true
	for _, name := range plan.Closure {
		state := e.states[name]
		states[name] = state
		if state != StateReady {
			success = false
		}
	}

	failures := make(map[string]error, len(e.failures))
	for name, err := range e.failures {
		failures[name] = err
	}

	return &BootResult{
		Target:   plan.Target,
		Success:  success,
		States:   states,
		Failures: failures,
	}
}
