package dinit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/axondata/go-dinit/pkg/logging"
)

// Loader discovers and validates service definitions in a definition
// directory. It performs filesystem reads only; no process is ever launched
// here.
type Loader struct {
	// Dir is the definition directory
	Dir string
}

// NewLoader creates a Loader for the given definition directory.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// LoadAll loads and validates every service definition under dir.
// It is shorthand for NewLoader(dir).Load().
func LoadAll(dir string) (*Registry, error) {
	return NewLoader(dir).Load()
}

// Load reads every definition file in the directory, folds the per-file parse
// results into a Registry, and validates the whole graph. All definition
// errors are collected and reported together; reference and cycle validation
// only runs once every file parsed cleanly.
//
// Internal services may declare waits-for.d directories; every definition
// file found there becomes both a dependency and a loaded service.
func (l *Loader) Load() (*Registry, error) {
	logging.Info("Loader", "Loading service definitions from %s", l.Dir)

	info, err := os.Stat(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading definition directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, l.Dir)
	}

	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading definition directory: %w", err)
	}

	registry := newRegistry()
	merr := &MultiError{}
	var pending []*Service

	register := func(name, path string) {
		svc, err := l.loadFile(name, path)
		if err != nil {
			merr.Add(err)
			return
		}
		if err := registry.add(svc); err != nil {
			if de, ok := err.(*DefinitionError); ok {
				de.File = path
			}
			merr.Add(err)
			return
		}
		pending = append(pending, svc)
		logging.Debug("Loader", "Registered service %q (type=%s) with dependencies %v",
			svc.Name, svc.Kind, svc.DependsOn)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ScriptSuffix) {
			logging.Debug("Loader", "Skipping shell-script file %s", entry.Name())
			continue
		}
		register(entry.Name(), filepath.Join(l.Dir, entry.Name()))
	}

	// Expand waits-for.d directories breadth-first; services loaded from a
	// directory may themselves carry waits-for.d.
	for len(pending) > 0 {
		svc := pending[0]
		pending = pending[1:]
		for _, rel := range svc.waitsForDirs {
			dir := rel
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(l.Dir, dir)
			}
			subEntries, err := os.ReadDir(dir)
			if err != nil {
				merr.Add(&DefinitionError{Service: svc.Name, Reason: ReasonBadValue,
					Err: fmt.Errorf("waits-for.d references unknown directory %q", rel)})
				continue
			}
			for _, entry := range subEntries {
				if entry.IsDir() || strings.HasSuffix(entry.Name(), ScriptSuffix) {
					continue
				}
				logging.Debug("Loader", "Service %q gains waits-for.d dependency %q",
					svc.Name, entry.Name())
				svc.DependsOn = appendDep(svc.DependsOn, entry.Name())
				if !registry.Has(entry.Name()) {
					register(entry.Name(), filepath.Join(dir, entry.Name()))
				}
			}
		}
	}

	if err := merr.Err(); err != nil {
		return nil, err
	}

	for _, svc := range registry.Services() {
		for _, dep := range svc.DependsOn {
			if !registry.Has(dep) {
				merr.Add(&UnresolvedDependencyError{Service: svc.Name, Dependency: dep})
			}
		}
	}
	if err := merr.Err(); err != nil {
		return nil, err
	}

	if err := detectCycle(registry); err != nil {
		return nil, err
	}

	logging.Info("Loader", "Loaded %d service definitions", registry.Len())
	return registry, nil
}

// loadFile parses one definition file and merges its env-file, if any.
func (l *Loader) loadFile(name, path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DefinitionError{File: path, Service: name, Reason: ReasonIO, Err: err}
	}

	svc, err := ParseDefinition(name, data)
	if err != nil {
		if de, ok := err.(*DefinitionError); ok {
			de.File = path
		}
		return nil, err
	}

	if svc.EnvFile != "" {
		envPath := svc.EnvFile
		if !filepath.IsAbs(envPath) {
			envPath = filepath.Join(l.Dir, envPath)
		}
		values, err := godotenv.Read(envPath)
		if err != nil {
			return nil, &DefinitionError{File: path, Service: svc.Name, Reason: ReasonBadValue,
				Err: fmt.Errorf("env-file %s: %w", svc.EnvFile, err)}
		}
		// Explicit env directives win over env-file entries.
		for key, value := range values {
			if _, explicit := svc.Env[key]; !explicit {
				svc.Env[key] = value
			}
		}
		logging.Debug("Loader", "Service %q merged %d entries from env-file %s",
			svc.Name, len(values), svc.EnvFile)
	}

	return svc, nil
}

// Colors for the cycle-detection DFS
const (
	colorWhite = iota
	colorGrey
	colorBlack
)

// detectCycle runs a three-color depth-first search over the whole registry
// and returns a CyclicDependencyError naming one concrete cycle if any back
// edge exists.
func detectCycle(registry *Registry) error {
	color := make(map[string]int, registry.Len())
	var stack []string

	var visit func(name string) *CyclicDependencyError
	visit = func(name string) *CyclicDependencyError {
		color[name] = colorGrey
		stack = append(stack, name)

		svc, _ := registry.Get(name)
		for _, dep := range svc.DependsOn {
			switch color[dep] {
			case colorGrey:
				start := 0
				for i, n := range stack {
					if n == dep {
						start = i
						break
					}
				}
				cycle := make([]string, 0, len(stack)-start+1)
				cycle = append(cycle, stack[start:]...)
				cycle = append(cycle, dep)
				return &CyclicDependencyError{Cycle: cycle}
			case colorWhite:
				if cerr := visit(dep); cerr != nil {
					return cerr
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[name] = colorBlack
		return nil
	}

	for _, name := range registry.Names() {
		if color[name] == colorWhite {
			if cerr := visit(name); cerr != nil {
				return cerr
			}
		}
	}
	return nil
}
