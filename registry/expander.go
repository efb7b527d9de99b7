package registry

import (
	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/span"
)

// ClassExpander is the default expansion transform.
//
// The raw tree is copied while class inheritance is applied: an object whose class
// parent is defined earlier in the same file gets the parent's children, then its own
// children override the inherited ones with the same name (nested objects merge).
// A parent in another file is only linked through Object.Parent.
// Afterwards every free name gets its target pointer and named uses are verified.
// The result depends only on the raw document and the expanded dependencies.
type ClassExpander struct{}

// Expand implements Expander.
func (ClassExpander) Expand(r *Registry, module livenode.ModuleID, file span.FileID, in, out *livenode.Document, errs *[]span.LiveError) {
	if len(in.Nodes) == 0 {
		return
	}

	e := &expansion{
		registry: r,
		module:   module,
		file:     file,
		in:       in,
		out:      out,
		errs:     errs,
	}

	e.emitObject(0, nil)
	e.resolveReferences()
}

type expansion struct {
	registry *Registry
	module   livenode.ModuleID
	file     span.FileID
	in       *livenode.Document
	out      *livenode.Document
	errs     *[]span.LiveError
}

// emitObject appends the raw object at raw followed by its children merged over base
// (indices of inherited child nodes already in out) and its Close.
func (e *expansion) emitObject(raw int, base []int) {
	node := e.in.Nodes[raw]
	object := node.Value.(livenode.Object)

	index := len(e.out.Nodes)
	e.out.Nodes = append(e.out.Nodes, node)

	if object.ParentName != "" {
		if inherited, ok := e.inherit(index, &object); ok {
			base = inherited
		}

		e.out.Nodes[index].Value = object
	}

	own := children(e.in.Nodes, raw)

	// the last definition of a name overrides
	overrides := make(map[string]int, len(own))
	for _, child := range own {
		if id := e.in.Nodes[child].ID; id != "" {
			overrides[id] = child
		}
	}

	emitted := make(map[int]bool, len(own))

	for _, inherited := range base {
		name := e.out.Nodes[inherited].ID
		if child, ok := overrides[name]; ok && name != "" && !emitted[child] {
			e.emitChild(child, inherited)
			emitted[child] = true

			continue
		}

		e.copySubtree(inherited)
	}

	for _, child := range own {
		if !emitted[child] {
			e.emitChild(child, -1)
		}
	}

	closing := livenode.Node{Origin: node.Origin, Value: livenode.Close{}}
	if closeIndex := e.in.Nodes.Close(raw); closeIndex < len(e.in.Nodes) {
		closing = e.in.Nodes[closeIndex]
	}

	e.out.Nodes = append(e.out.Nodes, closing)
}

// emitChild appends a raw child. base is the inherited node it overrides, or -1.
func (e *expansion) emitChild(raw, base int) {
	if !livenode.IsObject(e.in.Nodes[raw].Value) {
		e.out.Nodes = append(e.out.Nodes, e.in.Nodes[raw])
		return
	}

	if base < 0 {
		e.emitObject(raw, nil)
		return
	}

	baseObject, ok := e.out.Nodes[base].Value.(livenode.Object)
	if !ok {
		e.emitObject(raw, nil)
		return
	}

	index := len(e.out.Nodes)
	e.emitObject(raw, children(e.out.Nodes, base))

	// a plain object keeps the class of the object it overrides
	if own := e.in.Nodes[raw].Value.(livenode.Object); own.ParentName == "" && own.Type.IsZero() {
		e.out.Nodes[index].Value = baseObject
	}
}

func (e *expansion) copySubtree(index int) {
	end := e.out.Nodes.Skip(index)
	e.out.Nodes = append(e.out.Nodes, e.out.Nodes[index:end]...)
}

// inherit resolves the class parent of the object at index and records it in object.
// For a same-file parent it returns the parent's children.
func (e *expansion) inherit(index int, object *livenode.Object) ([]int, bool) {
	name := object.ParentName

	target, ok := e.registry.FindScopeTargetViaStart(name, index, e.out.Nodes)
	if !ok {
		e.report(index, ErrUnresolvedParent, "class parent %q is not defined", name)
		return nil, false
	}

	if target.Kind == ScopeLocal {
		if !livenode.IsObject(e.out.Nodes[target.Local].Value) {
			e.report(index, ErrInvalidParent, "class parent %q is not an object", name)
			return nil, false
		}

		object.Parent = &livenode.Pointer{File: e.file, Index: uint32(target.Local)}

		return children(e.out.Nodes, target.Local), true
	}

	parent, ok := e.registry.PtrToNode(target.Ptr)
	if !ok || !livenode.IsObject(parent.Value) {
		e.report(index, ErrInvalidParent, "class parent %q is not an object", name)
		return nil, false
	}

	ptr := target.Ptr
	object.Parent = &ptr

	return nil, false
}

func (e *expansion) resolveReferences() {
	for i := range e.out.Nodes {
		node := e.out.Nodes[i]

		switch v := node.Value.(type) {
		case livenode.IDRef:
			ptr, ok := e.resolveName(i, v.Name)
			if !ok {
				e.report(i, ErrUnresolvedName, "%q is not defined", v.Name)
				continue
			}

			v.Target = ptr
			e.out.Nodes[i].Value = v
		case livenode.Use:
			e.checkUse(i, node.ID, v)
		}
	}
}

// resolveName looks up name from the scope of node i, then through the class
// parents in other files of the enclosing objects.
func (e *expansion) resolveName(i int, name string) (livenode.Pointer, bool) {
	if target, ok := e.registry.FindScopeTargetViaStart(name, i, e.out.Nodes); ok {
		if target.Kind == ScopeLocal {
			return livenode.Pointer{File: e.file, Index: uint32(target.Local)}, true
		}

		return target.Ptr, true
	}

	for parent, ok := e.out.Nodes.Parent(i); ok; parent, ok = e.out.Nodes.Parent(parent) {
		object := e.out.Nodes[parent].Value.(livenode.Object)
		if object.Parent == nil || object.Parent.File == e.file {
			continue
		}

		if ptr, ok := e.registry.FindScopeItemViaClassParent(*object.Parent, name); ok {
			return ptr, true
		}
	}

	return livenode.Pointer{}, false
}

func (e *expansion) checkUse(i int, name string, use livenode.Use) {
	if use.Module == e.module {
		if name != "" {
			if _, ok := e.out.Nodes.ChildByName(0, name); !ok {
				e.report(i, ErrUnresolvedDependency, "%q is not defined in module %s", name, use.Module)
			}
		}

		return
	}

	if _, ok := e.registry.ModuleToFileID(use.Module); !ok {
		e.report(i, ErrUnresolvedDependency, "module %s is not registered", use.Module)
		return
	}

	if name == "" {
		return
	}

	if _, ok := e.registry.ModuleAndNameToDoc(use.Module, name); !ok {
		e.report(i, ErrUnresolvedDependency, "%q is not defined in module %s", name, use.Module)
	}
}

func (e *expansion) report(i int, sentinel error, format string, args ...any) {
	*e.errs = append(*e.errs, *span.NewLiveError(e.out.NodeSpan(i), sentinel, format, args...))
}

func children(nodes livenode.Nodes, index int) []int {
	var result []int
	for child := range nodes.Children(index) {
		result = append(result, child)
	}

	return result
}
