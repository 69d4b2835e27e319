package dinit

import (
	"reflect"
	"testing"
	"time"
)

func TestDefinitionBuilderRoundTrip(t *testing.T) {
	dir := t.TempDir()

	err := NewDefinitionBuilder("web", dir).
		WithCmd([]string{"/usr/bin/web", "--listen", ":8080"}).
		WithCwd("/srv/web").
		WithEnv("MODE", "production").
		WithLogfile("/var/log/web.log").
		WithReadyFile("/run/web.ready", 2*time.Second).
		WithDependsOn("db").
		WithWaitsFor("cache").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	err = NewDefinitionBuilder("db", dir).
		WithCmd([]string{"/usr/bin/db"}).
		WithLogfile("/var/log/db.log").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	err = NewDefinitionBuilder("cache", dir).
		WithCmd([]string{"/usr/bin/cache"}).
		WithLogfile("/var/log/cache.log").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	registry, err := LoadAll(dir)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	web, ok := registry.Get("web")
	if !ok {
		t.Fatal("web not loaded")
	}
	if want := []string{"/usr/bin/web", "--listen", ":8080"}; !reflect.DeepEqual(web.Command, want) {
		t.Errorf("Command = %v, want %v", web.Command, want)
	}
	if web.WorkingDir != "/srv/web" {
		t.Errorf("WorkingDir = %q", web.WorkingDir)
	}
	if web.Env["MODE"] != "production" {
		t.Errorf("Env = %v", web.Env)
	}
	if web.ReadyFile != "/run/web.ready" || web.ReadyTimeout != 2*time.Second {
		t.Errorf("ReadyFile = %q, ReadyTimeout = %v", web.ReadyFile, web.ReadyTimeout)
	}
	if want := []string{"db", "cache"}; !reflect.DeepEqual(web.DependsOn, want) {
		t.Errorf("DependsOn = %v, want %v", web.DependsOn, want)
	}
}

func TestDefinitionBuilderInternal(t *testing.T) {
	dir := t.TempDir()

	err := NewDefinitionBuilder("boot", dir).
		WithKind(KindInternal).
		WithDependsOn("web").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	svc, err := NewLoader(dir).loadFile("boot", dir+"/boot")
	if err != nil {
		t.Fatalf("loadFile() error = %v", err)
	}
	if svc.Kind != KindInternal {
		t.Errorf("Kind = %v, want internal", svc.Kind)
	}
}

func TestDefinitionBuilderRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	// A process without a command must not produce a file.
	err := NewDefinitionBuilder("broken", dir).
		WithLogfile("/var/log/broken.log").
		Build()
	if err == nil {
		t.Fatal("Build() accepted a process without a command")
	}

	if err := NewDefinitionBuilder("", dir).Build(); err == nil {
		t.Error("Build() accepted an empty name")
	}
	if err := NewDefinitionBuilder("x", "").Build(); err == nil {
		t.Error("Build() accepted an empty directory")
	}
}

func TestQuoteCommandRoundTrip(t *testing.T) {
	tests := [][]string{
		{"/bin/echo", "hello"},
		{"/bin/sh", "-c", "sleep 10 && touch /tmp/ready"},
		{"prog", "arg with 'single' quotes"},
		{"prog", `arg with "double" quotes`},
		{"prog", ""},
		{"prog", `back\slash`},
	}

	for _, argv := range tests {
		rendered := quoteCommand(argv)
		parsed, err := splitCommand(rendered)
		if err != nil {
			t.Errorf("splitCommand(%q) error = %v", rendered, err)
			continue
		}
		if !reflect.DeepEqual(parsed, argv) {
			t.Errorf("round trip %v -> %q -> %v", argv, rendered, parsed)
		}
	}
}
