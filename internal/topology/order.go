package topology

import "fmt"

// DependencyOrder topologically sorts the given services so every service
// appears after all of its dependencies that are also in the input set.
// Dependencies outside the input set are ignored: starting a single
// service must not silently expand the selection. Ties are broken by
// declaration order, so the result is deterministic for a given input set.
func (r *Registry) DependencyOrder(services []Service) ([]Service, error) {
	inSet := make(map[string]bool, len(services))
	for _, svc := range services {
		inSet[svc.Name] = true
	}

	// Kahn's algorithm over the induced subgraph.
	indegree := make(map[string]int, len(services))
	dependents := make(map[string][]string, len(services))
	for _, svc := range services {
		indegree[svc.Name] = 0
	}
	for _, svc := range services {
		for _, dep := range svc.DependsOn {
			if !inSet[dep] {
				continue
			}
			indegree[svc.Name]++
			dependents[dep] = append(dependents[dep], svc.Name)
		}
	}

	ready := make([]string, 0, len(services))
	for _, svc := range services {
		if indegree[svc.Name] == 0 {
			ready = append(ready, svc.Name)
		}
	}

	ordered := make([]Service, 0, len(services))
	for len(ready) > 0 {
		// Pick the ready service declared earliest.
		minIdx := 0
		for i := 1; i < len(ready); i++ {
			if r.declarationIndex(ready[i]) < r.declarationIndex(ready[minIdx]) {
				minIdx = i
			}
		}
		name := ready[minIdx]
		ready = append(ready[:minIdx], ready[minIdx+1:]...)

		svc, _ := r.Get(name)
		ordered = append(ordered, svc)

		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(ordered) != len(services) {
		remaining := make([]string, 0)
		for name, deg := range indegree {
			if deg > 0 {
				remaining = append(remaining, name)
			}
		}
		return nil, fmt.Errorf("dependency cycle involving %v", remaining)
	}

	return ordered, nil
}

// ReverseDependencyOrder is the exact reverse of DependencyOrder, used for
// shutdown so dependents stop before their dependencies.
func (r *Registry) ReverseDependencyOrder(services []Service) ([]Service, error) {
	ordered, err := r.DependencyOrder(services)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	return ordered, nil
}
