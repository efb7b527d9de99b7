// Package inspect renders expanded live documents as trees for dumping.
package inspect

import (
	"errors"
	"fmt"

	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/registry"
	"github.com/shibukawa/snaplive/span"
)

// Sentinel errors
var (
	ErrUnknownFile  = errors.New("unknown file")
	ErrNotExpanded  = errors.New("document is not expanded")
	ErrInvalidPoint = errors.New("pointer does not address a node")
)

// Tree returns the whole expanded document of file.
func Tree(reg *registry.Registry, file span.FileID) (Entry, error) {
	doc, ok := reg.FileIDToDoc(file)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %d", ErrUnknownFile, file)
	}

	if doc.Stale || len(doc.Nodes) == 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotExpanded, reg.FileIDToFileName(file))
	}

	b := builder{reg: reg, doc: doc}

	return b.entry(0), nil
}

// Subtree returns the subtree of the expanded node ptr addresses.
func Subtree(reg *registry.Registry, ptr livenode.Pointer) (Entry, error) {
	doc, ok := reg.PtrToDoc(ptr)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrInvalidPoint, ptr)
	}

	if doc.Stale {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotExpanded, reg.FileIDToFileName(ptr.File))
	}

	b := builder{reg: reg, doc: doc}

	return b.entry(int(ptr.Index)), nil
}

type builder struct {
	reg *registry.Registry
	doc *livenode.Document
}

func (b builder) entry(index int) Entry {
	node := b.doc.Nodes[index]
	result := Entry{Name: node.ID}

	switch v := node.Value.(type) {
	case livenode.Bool:
		result.Kind, result.Value = KindBool, v.String()
	case livenode.Int:
		result.Kind, result.Value = KindInt, v.String()
	case livenode.Float:
		result.Kind, result.Value = KindFloat, v.String()
	case livenode.Vec2:
		result.Kind, result.Value = KindVec2, v.String()
	case livenode.Vec3:
		result.Kind, result.Value = KindVec3, v.String()
	case livenode.Vec4:
		result.Kind, result.Value = KindVec4, v.String()
	case livenode.Color:
		result.Kind, result.Value = KindColor, v.String()
	case livenode.Str:
		result.Kind, result.Value = KindString, b.doc.StringOf(v)
	case livenode.IDRef:
		result.Kind, result.Value = KindRef, v.Name
		result.Target = b.target(v.Target)
	case livenode.Use:
		result.Kind, result.Value = KindUse, string(v.Module)
		if node.ID == "" {
			result.Value += livenode.PathSeparator + "*"
		}
	case livenode.Object:
		result.Kind, result.Value = KindObject, b.className(v)
		if v.Parent != nil {
			result.Target = b.target(*v.Parent)
		}

		for child := range b.doc.Nodes.Children(index) {
			result.Children = append(result.Children, b.entry(child))
		}
	}

	return result
}

func (b builder) className(object livenode.Object) string {
	if object.Type.IsZero() {
		return object.ParentName
	}

	if info, ok := b.reg.TypeInfo(object.Type); ok {
		return string(info.Module) + livenode.PathSeparator + info.Name
	}

	return object.Type.String()
}

func (b builder) target(ptr livenode.Pointer) string {
	if ptr.IsZero() {
		return ""
	}

	return fmt.Sprintf("%s:%d", b.reg.FileIDToFileName(ptr.File), ptr.Index)
}
