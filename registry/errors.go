package registry

import "errors"

// Sentinel errors
var (
	// ErrDependencyCycle rejects a registration whose dependencies would form a cycle.
	ErrDependencyCycle = errors.New("dependency cycle")
	// ErrTypeConflict reports a type id registered by two different modules. It is raised with panic.
	ErrTypeConflict = errors.New("type metadata conflict")

	// Expansion errors, accumulated into the caller's list
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	ErrUnresolvedName       = errors.New("unresolved name")
	ErrUnresolvedParent     = errors.New("unresolved class parent")
	ErrInvalidParent        = errors.New("class parent is not an object")
)
