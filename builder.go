package dinit

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/renameio/v2"
)

// DefinitionBuilder provides a fluent interface for authoring dinit-style
// definition files. Writes are atomic, so a concurrently running loader never
// observes a half-written definition.
type DefinitionBuilder struct {
	// Name is the service name and the definition file name
	Name string
	// Dir is the definition directory the file is written into
	Dir string
	// Kind is the service type
	Kind Kind
	// Cmd is the command and arguments to execute
	Cmd []string
	// Cwd is the working directory for the service
	Cwd string
	// Env contains environment overrides for the service
	Env map[string]string
	// EnvFile is an optional dotenv file merged into the environment
	EnvFile string
	// Logfile receives the service's combined output
	Logfile string
	// ReadyFile declares a file-appearance readiness probe
	ReadyFile string
	// ReadyTimeout bounds the readiness probe
	ReadyTimeout time.Duration
	// DependsOn lists hard dependencies
	DependsOn []string
	// WaitsFor lists waits-for dependencies
	WaitsFor []string
	// WaitsForDirs lists waits-for.d directories (internal services only)
	WaitsForDirs []string
}

// NewDefinitionBuilder creates a DefinitionBuilder for a process service.
func NewDefinitionBuilder(name, dir string) *DefinitionBuilder {
	return &DefinitionBuilder{
		Name: name,
		Dir:  dir,
		Kind: KindProcess,
		Env:  make(map[string]string),
	}
}

// WithKind sets the service type
func (b *DefinitionBuilder) WithKind(kind Kind) *DefinitionBuilder {
	b.Kind = kind
	return b
}

// WithCmd sets the command to execute
func (b *DefinitionBuilder) WithCmd(cmd []string) *DefinitionBuilder {
	b.Cmd = cmd
	return b
}

// WithCwd sets the working directory
func (b *DefinitionBuilder) WithCwd(cwd string) *DefinitionBuilder {
	b.Cwd = cwd
	return b
}

// WithEnv adds an environment override
func (b *DefinitionBuilder) WithEnv(key, value string) *DefinitionBuilder {
	b.Env[key] = value
	return b
}

// WithEnvFile sets the dotenv file merged into the environment
func (b *DefinitionBuilder) WithEnvFile(path string) *DefinitionBuilder {
	b.EnvFile = path
	return b
}

// WithLogfile sets the logfile path
func (b *DefinitionBuilder) WithLogfile(path string) *DefinitionBuilder {
	b.Logfile = path
	return b
}

// WithReadyFile declares a readiness probe: the service is Ready once path
// exists. A zero timeout leaves the engine default in effect.
func (b *DefinitionBuilder) WithReadyFile(path string, timeout time.Duration) *DefinitionBuilder {
	b.ReadyFile = path
	b.ReadyTimeout = timeout
	return b
}

// WithDependsOn appends hard dependencies
func (b *DefinitionBuilder) WithDependsOn(names ...string) *DefinitionBuilder {
	b.DependsOn = append(b.DependsOn, names...)
	return b
}

// WithWaitsFor appends waits-for dependencies
func (b *DefinitionBuilder) WithWaitsFor(names ...string) *DefinitionBuilder {
	b.WaitsFor = append(b.WaitsFor, names...)
	return b
}

// WithWaitsForDir appends a waits-for.d directory
func (b *DefinitionBuilder) WithWaitsForDir(dir string) *DefinitionBuilder {
	b.WaitsForDirs = append(b.WaitsForDirs, dir)
	return b
}

// Build writes the definition file atomically into the definition directory.
// The definition is validated through the same parser the Loader uses, so a
// definition that builds will also load.
func (b *DefinitionBuilder) Build() error {
	if b.Dir == "" {
		return fmt.Errorf("definition directory not specified")
	}
	if b.Name == "" {
		return fmt.Errorf("service name not specified")
	}

	content := b.render()
	if _, err := ParseDefinition(b.Name, []byte(content)); err != nil {
		return err
	}

	path := filepath.Join(b.Dir, b.Name)
	if err := renameio.WriteFile(path, []byte(content), FileMode); err != nil {
		return fmt.Errorf("writing definition %s: %w", b.Name, err)
	}
	return nil
}

// render produces the definition file contents.
func (b *DefinitionBuilder) render() string {
	var lines []string
	add := func(key, value string) {
		lines = append(lines, key+" = "+value)
	}

	add(DirectiveType, b.Kind.String())
	if len(b.Cmd) > 0 {
		add(DirectiveCommand, quoteCommand(b.Cmd))
	}
	if b.Logfile != "" {
		add(DirectiveLogfile, b.Logfile)
	}
	if b.Cwd != "" {
		add(DirectiveWorkingDir, b.Cwd)
	}
	for _, key := range sortedKeys(b.Env) {
		add(DirectiveEnv, key+"="+b.Env[key])
	}
	if b.EnvFile != "" {
		add(DirectiveEnvFile, b.EnvFile)
	}
	if b.ReadyFile != "" {
		add(DirectiveReadyFile, b.ReadyFile)
	}
	if b.ReadyTimeout > 0 {
		add(DirectiveReadyTimeout, b.ReadyTimeout.String())
	}
	for _, dep := range b.DependsOn {
		add(DirectiveDependsOn, dep)
	}
	for _, dep := range b.WaitsFor {
		add(DirectiveWaitsFor, dep)
	}
	for _, dir := range b.WaitsForDirs {
		add(DirectiveWaitsForDir, dir)
	}

	return strings.Join(lines, "\n") + "\n"
}

// quoteCommand renders an argv back into a command directive that
// splitCommand parses to the same argv.
func quoteCommand(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}

func quoteArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t'\"\\") {
		return arg
	}
	if !strings.Contains(arg, "'") {
		return "'" + arg + "'"
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(arg); i++ {
		if arg[i] == '"' || arg[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(arg[i])
	}
	sb.WriteByte('"')
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
