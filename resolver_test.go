package dinit

import (
	"errors"
	"reflect"
	"testing"
)

func buildRegistry(t *testing.T, services ...*Service) *Registry {
	t.Helper()
	registry := newRegistry()
	for _, svc := range services {
		if svc.Env == nil {
			svc.Env = map[string]string{}
		}
		if err := registry.add(svc); err != nil {
			t.Fatal(err)
		}
	}
	return registry
}

func internalSvc(name string, deps ...string) *Service {
	return &Service{Name: name, Kind: KindInternal, DependsOn: deps}
}

func TestResolveLayers(t *testing.T) {
	registry := buildRegistry(t,
		internalSvc("db"),
		internalSvc("cache"),
		internalSvc("web", "db", "cache"),
		internalSvc("boot", "web"),
	)

	plan, err := Resolve(registry, "boot")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := [][]string{{"db", "cache"}, {"web"}, {"boot"}}
	if !reflect.DeepEqual(plan.Layers, want) {
		t.Errorf("Layers = %v, want %v", plan.Layers, want)
	}
	if want := []string{"db", "cache", "web", "boot"}; !reflect.DeepEqual(plan.Closure, want) {
		t.Errorf("Closure = %v, want %v", plan.Closure, want)
	}
}

func TestResolveDiamond(t *testing.T) {
	registry := buildRegistry(t,
		internalSvc("base"),
		internalSvc("left", "base"),
		internalSvc("right", "base"),
		internalSvc("top", "left", "right"),
	)

	plan, err := Resolve(registry, "top")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := [][]string{{"base"}, {"left", "right"}, {"top"}}
	if !reflect.DeepEqual(plan.Layers, want) {
		t.Errorf("Layers = %v, want %v", plan.Layers, want)
	}
}

func TestResolveClosureExcludesUnrelated(t *testing.T) {
	registry := buildRegistry(t,
		internalSvc("db"),
		internalSvc("web", "db"),
		internalSvc("unrelated"),
	)

	plan, err := Resolve(registry, "web")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if plan.Contains("unrelated") {
		t.Error("closure includes a service the target does not depend on")
	}
	if want := []string{"db", "web"}; !reflect.DeepEqual(plan.Closure, want) {
		t.Errorf("Closure = %v, want %v", plan.Closure, want)
	}
}

func TestResolveSingleService(t *testing.T) {
	registry := buildRegistry(t, internalSvc("solo"))

	plan, err := Resolve(registry, "solo")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := [][]string{{"solo"}}; !reflect.DeepEqual(plan.Layers, want) {
		t.Errorf("Layers = %v, want %v", plan.Layers, want)
	}
}

func TestResolveUnknownTarget(t *testing.T) {
	registry := buildRegistry(t, internalSvc("db"))

	_, err := Resolve(registry, "nope")
	var ue *UnknownTargetError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UnknownTargetError", err)
	}
	if ue.Target != "nope" {
		t.Errorf("Target = %q, want nope", ue.Target)
	}
}

func TestResolveDeterministic(t *testing.T) {
	registry := buildRegistry(t,
		internalSvc("c"),
		internalSvc("a"),
		internalSvc("b"),
		internalSvc("boot", "a", "b", "c"),
	)

	first, err := Resolve(registry, "boot")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		plan, err := Resolve(registry, "boot")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(plan.Layers, first.Layers) {
			t.Fatalf("run %d: Layers = %v, want %v", i, plan.Layers, first.Layers)
		}
	}
	// Ties break by registry load order, not alphabetically.
	if want := []string{"c", "a", "b"}; !reflect.DeepEqual(first.Layers[0], want) {
		t.Errorf("Layers[0] = %v, want %v", first.Layers[0], want)
	}
}
