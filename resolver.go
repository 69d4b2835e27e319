package dinit

// Plan is the resolved start order for one target: the dependency closure
// arranged into layers. Services within a layer have no ordering constraint
// among themselves and may start concurrently; layers execute strictly in
// sequence.
type Plan struct {
	// Target is the requested service
	Target string

	// Closure holds every service the target transitively requires,
	// including the target itself, in registry load order
	Closure []string

	// Layers is the start order: each layer contains the services whose
	// dependencies all sit in earlier layers
	Layers [][]string
}

// Contains reports whether the named service is part of the closure.
func (p *Plan) Contains(name string) bool {
	for _, n := range p.Closure {
		if n == name {
			return true
		}
	}
	return false
}

// Resolve computes the dependency closure of target and a layered start
// order. Ties between services with no dependency relation are broken by
// registry load order, so resolving the same (registry, target) pair twice
// yields identical layers.
//
// The registry is assumed validated: every reference resolves and the graph
// is acyclic. An absent target yields UnknownTargetError.
func Resolve(registry *Registry, target string) (*Plan, error) {
	if !registry.Has(target) {
		return nil, &UnknownTargetError{Target: target}
	}

	member := map[string]bool{target: true}
	frontier := []string{target}
	for len(frontier) > 0 {
		name := frontier[0]
		frontier = frontier[1:]
		svc, _ := registry.Get(name)
		for _, dep := range svc.DependsOn {
			if !member[dep] {
				member[dep] = true
				frontier = append(frontier, dep)
			}
		}
	}

	closure := make([]string, 0, len(member))
	for _, name := range registry.Names() {
		if member[name] {
			closure = append(closure, name)
		}
	}

	remaining := make(map[string]int, len(closure))
	for _, name := range closure {
		svc, _ := registry.Get(name)
		remaining[name] = len(svc.DependsOn)
	}

	placed := make(map[string]bool, len(closure))
	var layers [][]string
	for len(placed) < len(closure) {
		var layer []string
		for _, name := range closure {
			if !placed[name] && remaining[name] == 0 {
				layer = append(layer, name)
			}
		}
		if len(layer) == 0 {
			// Unreachable for a registry that passed cycle detection.
			return nil, &CyclicDependencyError{Cycle: unplaced(closure, placed)}
		}
		for _, name := range layer {
			placed[name] = true
		}
		for _, name := range closure {
			if placed[name] {
				continue
			}
			svc, _ := registry.Get(name)
			for _, dep := range svc.DependsOn {
				if contains(layer, dep) {
					remaining[name]--
				}
			}
		}
		layers = append(layers, layer)
	}

	return &Plan{Target: target, Closure: closure, Layers: layers}, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func unplaced(closure []string, placed map[string]bool) []string {
	var rest []string
	for _, name := range closure {
		if !placed[name] {
			rest = append(rest, name)
		}
	}
	return rest
}
