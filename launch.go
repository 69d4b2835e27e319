package dinit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/axondata/go-dinit/pkg/logging"
)

// runProcess spawns a long-running service. The service is Ready once the
// spawn succeeds and either the start delay passes without an exit or the
// declared ready-file appears.
func (e *Engine) runProcess(ctx context.Context, svc *Service) error {
	cmd, logf, err := e.command(svc)
	if err != nil {
		return &LaunchError{Service: svc.Name, Stage: StageSpawn, ExitCode: -1, Err: err}
	}

	if err := cmd.Start(); err != nil {
		_ = logf.Close()
		return &LaunchError{Service: svc.Name, Stage: StageSpawn, ExitCode: -1, Err: err}
	}
	// The child holds its own descriptor now.
	_ = logf.Close()

	e.rememberProcess(svc.Name, cmd.Process)
	if err := e.writePIDFile(svc.Name, cmd.Process.Pid); err != nil {
		logging.Warn("Engine", "Service %q: %v", svc.Name, err)
	}

	// Reap the child whenever it exits; post-boot exits are not tracked.
	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	if svc.ReadyFile != "" {
		timeout := svc.ReadyTimeout
		if timeout <= 0 {
			timeout = e.readyTimeout
		}
		if err := waitForFile(ctx, svc.ReadyFile, timeout); err != nil {
			return &LaunchError{Service: svc.Name, Stage: StageReady, ExitCode: -1, Err: err}
		}
		return nil
	}

	if e.startDelay > 0 {
		timer := time.NewTimer(e.startDelay)
		defer timer.Stop()
		select {
		case werr := <-exited:
			if werr != nil {
				return &LaunchError{Service: svc.Name, Stage: StageExit, ExitCode: exitCode(werr),
					Err: fmt.Errorf("process exited during start delay: %w", werr)}
			}
		case <-timer.C:
		case <-ctx.Done():
			return &LaunchError{Service: svc.Name, Stage: StageReady, ExitCode: -1, Err: ctx.Err()}
		}
	}

	return nil
}

// runScripted runs a one-shot command to completion. Ready iff it exits zero.
func (e *Engine) runScripted(ctx context.Context, svc *Service) error {
	cmd, logf, err := e.command(svc)
	if err != nil {
		return &LaunchError{Service: svc.Name, Stage: StageSpawn, ExitCode: -1, Err: err}
	}
	defer func() { _ = logf.Close() }()

	if err := cmd.Start(); err != nil {
		return &LaunchError{Service: svc.Name, Stage: StageSpawn, ExitCode: -1, Err: err}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case werr := <-done:
		if werr != nil {
			return &LaunchError{Service: svc.Name, Stage: StageExit, ExitCode: exitCode(werr), Err: werr}
		}
		return nil
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return &LaunchError{Service: svc.Name, Stage: StageExit, ExitCode: -1, Err: ctx.Err()}
	}
}

// command builds the exec.Cmd for a service: argv exec with no shell, stdout
// and stderr appended to the declared logfile, declared working directory and
// merged environment.
func (e *Engine) command(svc *Service) (*exec.Cmd, *os.File, error) {
	logf, err := openLogfile(svc.Logfile)
	if err != nil {
		return nil, nil, err
	}

	cmd := exec.Command(svc.Command[0], svc.Command[1:]...)
	cmd.Dir = svc.WorkingDir
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Env = mergeEnv(os.Environ(), svc.Env)
	return cmd, logf, nil
}

// openLogfile opens the service logfile for appending, creating parent
// directories as needed. When the directory cannot be created the logfile
// falls back to its base name in the working directory.
func openLogfile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			logging.Warn("Engine", "Unable to create log directory for %s (%v); falling back to local file", path, err)
			path = filepath.Base(path)
		}
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, FileMode)
}

// writePIDFile atomically records a spawned PID under the engine's pid
// directory, when one is configured.
func (e *Engine) writePIDFile(name string, pid int) error {
	if e.pidDir == "" {
		return nil
	}
	if err := os.MkdirAll(e.pidDir, DirMode); err != nil {
		return fmt.Errorf("creating pid directory: %w", err)
	}
	path := filepath.Join(e.pidDir, name+".pid")
	if err := renameio.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), FileMode); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	return nil
}

// mergeEnv overlays the service's environment overrides onto the base
// environment, keeping the base ordering and appending new keys sorted.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}

	merged := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if value, ok := overrides[key]; ok {
			merged = append(merged, key+"="+value)
			seen[key] = true
			continue
		}
		merged = append(merged, kv)
	}

	extra := make([]string, 0, len(overrides))
	for key := range overrides {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		merged = append(merged, key+"="+overrides[key])
	}
	return merged
}

// exitCode extracts the process exit code from a Wait error, or -1.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
