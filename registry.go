package dinit

import "fmt"

// Registry is the validated set of service definitions produced by a Loader.
// It preserves load order so that dependency resolution is deterministic, and
// it is immutable once the Loader returns it: concurrent reads from launch
// goroutines need no synchronization.
type Registry struct {
	services map[string]*Service
	order    []string
}

func newRegistry() *Registry {
	return &Registry{services: make(map[string]*Service)}
}

// add registers a service, rejecting duplicate names.
func (r *Registry) add(svc *Service) error {
	if _, exists := r.services[svc.Name]; exists {
		return &DefinitionError{Service: svc.Name, Reason: ReasonDuplicate,
			Err: fmt.Errorf("service %q already registered", svc.Name)}
	}
	r.services[svc.Name] = svc
	r.order = append(r.order, svc.Name)
	return nil
}

// Get returns the named service, or false if it is not registered.
func (r *Registry) Get(name string) (*Service, bool) {
	svc, ok := r.services[name]
	return svc, ok
}

// Has reports whether the named service is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.services[name]
	return ok
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns all service names in load order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Services returns all services in load order.
func (r *Registry) Services() []*Service {
	services := make([]*Service, 0, len(r.order))
	for _, name := range r.order {
		services = append(services, r.services[name])
	}
	return services
}
