package registry

import (
	"maps"
	"slices"

	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/span"
)

// cycle is the dependency path that a rejected registration would close
type cycle struct {
	path  []livenode.ModuleID
	token span.TokenID
}

// findCycle reports whether giving module the dependencies deps closes a cycle.
// The current graph is acyclic, so a new cycle has to run through module.
func (r *Registry) findCycle(module livenode.ModuleID, deps []dependency) *cycle {
	for _, dep := range deps {
		visited := make(map[livenode.ModuleID]bool)
		if path := r.pathTo(dep.module, module, visited); path != nil {
			return &cycle{
				path:  append([]livenode.ModuleID{module}, path...),
				token: dep.token,
			}
		}
	}

	return nil
}

func (r *Registry) pathTo(from, target livenode.ModuleID, visited map[livenode.ModuleID]bool) []livenode.ModuleID {
	if from == target {
		return []livenode.ModuleID{from}
	}

	if visited[from] {
		return nil
	}

	visited[from] = true

	for _, next := range r.sortedDependencies(from) {
		if path := r.pathTo(next, target, visited); path != nil {
			return append([]livenode.ModuleID{from}, path...)
		}
	}

	return nil
}

// markStale flags the expanded document of module and of every module that depends on it,
// directly or transitively. Dependents are found by scanning the adjacency map.
func (r *Registry) markStale(module livenode.ModuleID) {
	visited := make(map[livenode.ModuleID]bool)
	pending := []livenode.ModuleID{module}

	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if visited[current] {
			continue
		}

		visited[current] = true

		if fileID, ok := r.moduleToFile[current]; ok {
			r.expanded[fileID.ToIndex()].Stale = true
			r.logger.Debug("marked stale", "module", current, "cause", module)
		}

		for _, other := range r.depOrder {
			if _, ok := r.depGraph[other][current]; ok && !visited[other] {
				pending = append(pending, other)
			}
		}
	}
}

// placeBefore repairs the order for the edge module -> dep.
// A dep after module moves right before it, a missing dep is inserted there, a dep
// already in front is left alone. A moved dep gets its own dependencies repaired.
func (r *Registry) placeBefore(dep, module livenode.ModuleID) {
	moduleIndex := slices.Index(r.depOrder, module)
	depIndex := slices.Index(r.depOrder, dep)

	switch {
	case depIndex >= 0 && depIndex < moduleIndex:
		return
	case depIndex > moduleIndex:
		r.depOrder = slices.Delete(r.depOrder, depIndex, depIndex+1)
		r.depOrder = slices.Insert(r.depOrder, moduleIndex, dep)
		r.logger.Debug("moved dependency", "module", module, "dependency", dep)
	default:
		r.depOrder = slices.Insert(r.depOrder, moduleIndex, dep)
		r.logger.Debug("inserted dependency", "module", module, "dependency", dep)
	}

	for _, next := range r.sortedDependencies(dep) {
		r.placeBefore(next, dep)
	}
}

func (r *Registry) sortedDependencies(module livenode.ModuleID) []livenode.ModuleID {
	return slices.Sorted(maps.Keys(r.depGraph[module]))
}

// DepOrder returns the modules in dependency order: every module follows its dependencies.
func (r *Registry) DepOrder() []livenode.ModuleID {
	return slices.Clone(r.depOrder)
}

// Dependencies returns the modules that module depends on, sorted.
func (r *Registry) Dependencies(module livenode.ModuleID) []livenode.ModuleID {
	return r.sortedDependencies(module)
}
