// Package topology holds the static service topology of the deployment:
// which logical services exist, which container backs each one, which
// group a service belongs to, and the dependency edges between services.
//
// The registry is built once at startup and never mutated. Every other
// component (orchestrator, health evaluator, CLI) consumes it read-only,
// so the same selection always resolves to the same services in the same
// order.
package topology

import (
	"fmt"
	"sort"
)

// Group names a set of services for bulk operations. Every service belongs
// to exactly one primary group. Group membership never affects ordering;
// ordering is derived solely from dependency edges.
type Group string

const (
	GroupInfrastructure Group = "infrastructure"
	GroupAPI            Group = "api"
	GroupFrontend       Group = "frontend"
	GroupBackend        Group = "backend"
)

// Groups lists all known groups in canonical order.
func Groups() []Group {
	return []Group{GroupInfrastructure, GroupAPI, GroupFrontend, GroupBackend}
}

// Service is a logical deployment unit mapped to one container.
type Service struct {
	// Name is the logical service name used in CLI selections.
	Name string
	// Container is the runtime container name backing this service.
	Container string
	// Group is the service's primary group.
	Group Group
	// DependsOn lists the names of services that must be running before
	// this one starts.
	DependsOn []string
	// HTTPPort, when non-zero, is the container-internal port the health
	// evaluator probes with an HTTP GET.
	HTTPPort int
}

// Registry answers membership and ordering questions about the deployment
// topology. Immutable after construction.
type Registry struct {
	services []Service
	byName   map[string]int
	byGroup  map[Group][]string
}

// Definition describes services to register. Used by NewRegistry and by
// config overrides that append extra services to the built-in deployment.
type Definition struct {
	Services []Service
}

// NewRegistry builds a registry from the given definition. It fails if a
// service name is duplicated, a dependency references an unknown service,
// or the dependency graph contains a cycle.
func NewRegistry(def Definition) (*Registry, error) {
	r := &Registry{
		services: make([]Service, 0, len(def.Services)),
		byName:   make(map[string]int, len(def.Services)),
		byGroup:  make(map[Group][]string),
	}

	for _, svc := range def.Services {
		if svc.Name == "" {
			return nil, fmt.Errorf("service with empty name")
		}
		if _, dup := r.byName[svc.Name]; dup {
			return nil, fmt.Errorf("duplicate service %q", svc.Name)
		}
		r.byName[svc.Name] = len(r.services)
		r.services = append(r.services, svc)
		r.byGroup[svc.Group] = append(r.byGroup[svc.Group], svc.Name)
	}

	for _, svc := range r.services {
		for _, dep := range svc.DependsOn {
			if _, ok := r.byName[dep]; !ok {
				return nil, fmt.Errorf("service %q depends on unknown service %q", svc.Name, dep)
			}
		}
	}

	// Reject cyclic graphs up front so ordering can assume acyclicity.
	if _, err := r.DependencyOrder(r.services); err != nil {
		return nil, err
	}

	return r, nil
}

// Resolve maps a selection token to an ordered set of services. A group
// name resolves to its members in declaration order, an exact service name
// to a singleton, and the empty string to all services. Anything else is
// an UnknownSelectionError.
func (r *Registry) Resolve(nameOrGroup string) ([]Service, error) {
	if nameOrGroup == "" {
		return r.All(), nil
	}

	if names, ok := r.byGroup[Group(nameOrGroup)]; ok {
		members := make([]Service, 0, len(names))
		for _, n := range names {
			members = append(members, r.services[r.byName[n]])
		}
		return members, nil
	}

	if idx, ok := r.byName[nameOrGroup]; ok {
		return []Service{r.services[idx]}, nil
	}

	return nil, &UnknownSelectionError{Token: nameOrGroup, Known: r.knownTokens()}
}

// Get returns the service with the given name.
func (r *Registry) Get(name string) (Service, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Service{}, false
	}
	return r.services[idx], true
}

// All returns every registered service in declaration order.
func (r *Registry) All() []Service {
	out := make([]Service, len(r.services))
	copy(out, r.services)
	return out
}

func (r *Registry) knownTokens() []string {
	tokens := make([]string, 0, len(r.services)+len(r.byGroup))
	for _, g := range Groups() {
		if _, ok := r.byGroup[g]; ok {
			tokens = append(tokens, string(g))
		}
	}
	for _, svc := range r.services {
		tokens = append(tokens, svc.Name)
	}
	sort.Strings(tokens[len(tokens)-len(r.services):])
	return tokens
}

// declarationIndex reports the position of a service in the original
// definition. Used as the tie-breaker for deterministic ordering.
func (r *Registry) declarationIndex(name string) int {
	return r.byName[name]
}
