package registry

import (
	"github.com/shibukawa/snaplive/livenode"
)

// maxParentDepth bounds class parent chains that cross files
const maxParentDepth = 64

// ScopeKind tells where a scope lookup found its target.
type ScopeKind int

const (
	// ScopeLocal is a node of the searched node array
	ScopeLocal ScopeKind = iota
	// ScopeRemote is a node of another file's expanded document
	ScopeRemote
)

// ScopeTarget is the result of a scope lookup over a node array.
type ScopeTarget struct {
	Kind  ScopeKind
	Local int              // ScopeLocal: index in the searched nodes
	Ptr   livenode.Pointer // ScopeRemote
}

// FindScopeItemViaClassParent searches name in the scope of the expanded node at start.
// When nothing matches and the node is an object whose class parent lives in another
// file, the search continues from that parent. Same-file parents are already flattened.
func (r *Registry) FindScopeItemViaClassParent(start livenode.Pointer, name string) (livenode.Pointer, bool) {
	for range maxParentDepth {
		doc, ok := r.PtrToDoc(start)
		if !ok {
			return livenode.Pointer{}, false
		}

		index := int(start.Index)

		if found, ok := doc.Nodes.ScopeUpDownByName(index, name); ok {
			if use, isUse := doc.Nodes[found].Value.(livenode.Use); isUse {
				return r.ModuleAndNameToPtr(use.Module, name)
			}

			return livenode.Pointer{File: start.File, Index: uint32(found)}, true
		}

		object, ok := doc.Nodes[index].Value.(livenode.Object)
		if !ok || object.Parent == nil || object.Parent.File == start.File {
			return livenode.Pointer{}, false
		}

		start = *object.Parent
	}

	r.logger.Warn("class parent chain is too deep", "name", name)

	return livenode.Pointer{}, false
}

// FindScopeTargetViaStart searches name in the scope of nodes[index]. A matching
// named use is followed into the expanded document of its module. If the local
// search fails, the top-level wildcard uses are tried in source order.
func (r *Registry) FindScopeTargetViaStart(name string, index int, nodes livenode.Nodes) (ScopeTarget, bool) {
	if found, ok := nodes.ScopeUpDownByName(index, name); ok {
		use, isUse := nodes[found].Value.(livenode.Use)
		if !isUse {
			return ScopeTarget{Kind: ScopeLocal, Local: found}, true
		}

		if ptr, ok := r.ModuleAndNameToPtr(use.Module, name); ok {
			return ScopeTarget{Kind: ScopeRemote, Ptr: ptr}, true
		}
	}

	if len(nodes) == 0 || name == "" {
		return ScopeTarget{}, false
	}

	for child := range nodes.Children(0) {
		use, isUse := nodes[child].Value.(livenode.Use)
		if !isUse || nodes[child].ID != "" {
			continue
		}

		if ptr, ok := r.ModuleAndNameToPtr(use.Module, name); ok {
			return ScopeTarget{Kind: ScopeRemote, Ptr: ptr}, true
		}
	}

	return ScopeTarget{}, false
}

// FindScopePtrViaOrigin resolves name from the scope of the node that origin was parsed from,
// looked up in the expanded document of the origin's file.
func (r *Registry) FindScopePtrViaOrigin(origin livenode.Origin, name string) (livenode.Pointer, bool) {
	file := origin.File()
	if !r.validFile(file) {
		return livenode.Pointer{}, false
	}

	doc := r.expanded[file.ToIndex()]

	start, ok := expandedIndexOf(doc, origin)
	if !ok {
		return livenode.Pointer{}, false
	}

	target, ok := r.FindScopeTargetViaStart(name, start, doc.Nodes)
	if !ok {
		return livenode.Pointer{}, false
	}

	if target.Kind == ScopeLocal {
		return livenode.Pointer{File: file, Index: uint32(target.Local)}, true
	}

	return target.Ptr, true
}

// expandedIndexOf finds the first expanded node parsed from the same raw node as origin.
// Copies made by inheritance always follow the original.
func expandedIndexOf(doc *livenode.Document, origin livenode.Origin) (int, bool) {
	for i, node := range doc.Nodes {
		if node.Origin == origin {
			return i, true
		}
	}

	return 0, false
}
