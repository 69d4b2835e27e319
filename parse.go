package dinit

import (
	"fmt"
	"strings"
	"time"
)

// ParseDefinition parses a single dinit-style definition into a Service.
// name is the service name implied by the file name; an explicit name
// directive overrides it.
//
// The parser is a pure function over the file contents: env-file loading and
// waits-for.d expansion need the surrounding directory and are performed by
// the Loader.
func ParseDefinition(name string, data []byte) (*Service, error) {
	directives, err := parseDirectives(name, data)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		Name: name,
		Kind: KindProcess,
		Env:  make(map[string]string),
	}

	if v, ok := last(directives[DirectiveName]); ok {
		svc.Name = v
	}

	if values := directives[DirectiveType]; len(values) > 0 {
		kind, ok := KindFromString(values[0])
		if !ok {
			return nil, &DefinitionError{Service: svc.Name, Reason: ReasonBadValue,
				Err: fmt.Errorf("unknown service type %q", values[0])}
		}
		svc.Kind = kind
	}

	if v, ok := last(directives[DirectiveCommand]); ok {
		argv, err := splitCommand(v)
		if err != nil {
			return nil, &DefinitionError{Service: svc.Name, Reason: ReasonBadValue,
				Err: fmt.Errorf("command: %w", err)}
		}
		svc.Command = argv
	}

	if v, ok := last(directives[DirectiveLogfile]); ok {
		svc.Logfile = v
	}
	if v, ok := last(directives[DirectiveWorkingDir]); ok {
		svc.WorkingDir = v
	}
	if v, ok := last(directives[DirectiveEnvFile]); ok {
		svc.EnvFile = v
	}
	if v, ok := last(directives[DirectiveReadyFile]); ok {
		svc.ReadyFile = v
	}

	if v, ok := last(directives[DirectiveReadyTimeout]); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, &DefinitionError{Service: svc.Name, Reason: ReasonBadValue,
				Err: fmt.Errorf("ready-timeout %q is not a positive duration", v)}
		}
		svc.ReadyTimeout = d
	}

	for _, v := range directives[DirectiveEnv] {
		key, value, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, &DefinitionError{Service: svc.Name, Reason: ReasonBadValue,
				Err: fmt.Errorf("env %q is not KEY=VALUE", v)}
		}
		svc.Env[key] = strings.TrimSpace(value)
	}

	if v, ok := last(directives[DirectiveRestart]); ok && v != "none" {
		return nil, &DefinitionError{Service: svc.Name, Reason: ReasonBadValue,
			Err: fmt.Errorf("restart policy %q is not supported (only none)", v)}
	}

	for _, dep := range directives[DirectiveDependsOn] {
		svc.DependsOn = appendDep(svc.DependsOn, dep)
	}
	// waits-for entries are additional dependencies for start ordering
	for _, dep := range directives[DirectiveWaitsFor] {
		svc.DependsOn = appendDep(svc.DependsOn, dep)
	}
	svc.waitsForDirs = append(svc.waitsForDirs, directives[DirectiveWaitsForDir]...)

	if err := svc.Validate(); err != nil {
		return nil, err
	}
	return svc, nil
}

// parseDirectives reads the line-oriented key/value format: one directive per
// line, separated by "=" or ":", with "#" comments. Repeated keys accumulate
// in order.
func parseDirectives(name string, data []byte) (map[string][]string, error) {
	directives := make(map[string][]string)
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var key, value string
		if k, v, ok := strings.Cut(line, "="); ok {
			key, value = k, v
		} else if k, v, ok := strings.Cut(line, ":"); ok {
			key, value = k, v
		} else {
			return nil, &DefinitionError{Service: name, Reason: ReasonSyntax, Line: i + 1,
				Err: fmt.Errorf("malformed line %q", line)}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return nil, &DefinitionError{Service: name, Reason: ReasonSyntax, Line: i + 1,
				Err: fmt.Errorf("malformed line %q", line)}
		}
		directives[key] = append(directives[key], value)
	}
	return directives, nil
}

// last returns the final value for a repeated directive, matching dinit's
// last-one-wins behavior for scalar keys.
func last(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// appendDep appends a dependency name, preserving order and dropping
// duplicates.
func appendDep(deps []string, name string) []string {
	if name == "" {
		return deps
	}
	for _, d := range deps {
		if d == name {
			return deps
		}
	}
	return append(deps, name)
}

// splitCommand splits a command directive into argv, honoring single quotes,
// double quotes, and backslash escapes. The launched process receives these
// arguments directly; no shell is involved.
func splitCommand(s string) ([]string, error) {
	var args []string
	var cur strings.Builder
	var quote byte
	escaped := false
	pending := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case quote == '\'':
			if c == '\'' {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case quote == '"':
			switch {
			case c == '"':
				quote = 0
			case c == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\'):
				escaped = true
			default:
				cur.WriteByte(c)
			}
		case c == '\\':
			escaped = true
			pending = true
		case c == '\'' || c == '"':
			quote = c
			pending = true
		case c == ' ' || c == '\t':
			if pending || cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteByte(c)
		}
	}

	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if pending || cur.Len() > 0 {
		args = append(args, cur.String())
	}
	return args, nil
}
