package livenode

import "iter"

// Node is one entry of a document's flat node array.
type Node struct {
	Origin Origin
	ID     string // property name; empty for anonymous nodes and wildcard uses
	Value  Value
}

// Nodes is a flat tree: an Object node is followed by its children and a matching Close.
// Navigation tolerates a trailing unclosed object so it can be used while a document is being built.
type Nodes []Node

// Close returns the index of the Close matching the object at index.
// For non-object nodes it returns index. If the object is not closed yet it returns len(n).
func (n Nodes) Close(index int) int {
	if !IsObject(n[index].Value) {
		return index
	}

	depth := 0
	for i := index + 1; i < len(n); i++ {
		switch n[i].Value.(type) {
		case Object:
			depth++
		case Close:
			if depth == 0 {
				return i
			}
			depth--
		}
	}

	return len(n)
}

// Skip returns the index right after the subtree starting at index.
func (n Nodes) Skip(index int) int {
	return n.Close(index) + 1
}

// FirstChild returns the first child of the object at index.
func (n Nodes) FirstChild(index int) (int, bool) {
	if !IsObject(n[index].Value) {
		return 0, false
	}

	child := index + 1
	if child >= len(n) || IsClose(n[child].Value) {
		return 0, false
	}

	return child, true
}

// NextChild returns the next sibling of the node at index.
func (n Nodes) NextChild(index int) (int, bool) {
	next := n.Skip(index)
	if next >= len(n) || IsClose(n[next].Value) {
		return 0, false
	}

	return next, true
}

// Children iterates over the direct children of the object at index.
func (n Nodes) Children(index int) iter.Seq[int] {
	return func(yield func(int) bool) {
		child, ok := n.FirstChild(index)
		for ok {
			if !yield(child) {
				return
			}
			child, ok = n.NextChild(child)
		}
	}
}

// ChildByName returns the first direct child of the object at index named name.
func (n Nodes) ChildByName(index int, name string) (int, bool) {
	for child := range n.Children(index) {
		if n[child].ID == name {
			return child, true
		}
	}

	return 0, false
}

// Parent returns the object that encloses the node at index.
func (n Nodes) Parent(index int) (int, bool) {
	depth := 0
	for i := index - 1; i >= 0; i-- {
		switch n[i].Value.(type) {
		case Close:
			depth++
		case Object:
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}

	return 0, false
}

// ScopeUpDownByName looks for name among the children of the node at index (if it is an object),
// then among its siblings, then among the siblings of each enclosing object up to the root.
// The start node itself never matches.
func (n Nodes) ScopeUpDownByName(index int, name string) (int, bool) {
	if name == "" || index < 0 || index >= len(n) {
		return 0, false
	}

	if found, ok := n.ChildByName(index, name); ok {
		return found, true
	}

	current := index
	for {
		parent, ok := n.Parent(current)
		if !ok {
			return 0, false
		}

		for child := range n.Children(parent) {
			if child != current && n[child].ID == name {
				return child, true
			}
		}

		current = parent
	}
}
