package registry

import (
	"iter"

	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/span"
)

// DocNodes addresses a node together with the node array it lives in.
type DocNodes struct {
	Nodes livenode.Nodes
	File  span.FileID
	Index int
}

// Ptr returns the pointer to the addressed node.
func (d DocNodes) Ptr() livenode.Pointer {
	return livenode.Pointer{File: d.File, Index: uint32(d.Index)}
}

// PathToFileID returns the id of a registered file name.
func (r *Registry) PathToFileID(fileName string) (span.FileID, bool) {
	id, ok := r.fileIDs[fileName]
	return id, ok
}

// FileIDToFileName returns the name of a registered file, or "" for an unknown id.
func (r *Registry) FileIDToFileName(id span.FileID) string {
	if !r.validFile(id) {
		return ""
	}

	return r.files[id.ToIndex()].Name
}

// File returns a registered file.
func (r *Registry) File(id span.FileID) (*File, bool) {
	if !r.validFile(id) {
		return nil, false
	}

	return r.files[id.ToIndex()], true
}

// Files iterates over the registered files in registration order.
func (r *Registry) Files() iter.Seq2[span.FileID, *File] {
	return func(yield func(span.FileID, *File) bool) {
		for i := 1; i < len(r.files); i++ {
			if !yield(span.FileIDFromIndex(i), r.files[i]) {
				return
			}
		}
	}
}

// ModuleToFileID returns the file registered for module.
func (r *Registry) ModuleToFileID(module livenode.ModuleID) (span.FileID, bool) {
	id, ok := r.moduleToFile[module]
	return id, ok
}

// TokenIDToSpan returns the source span of a token.
func (r *Registry) TokenIDToSpan(id span.TokenID) span.Span {
	if !r.validFile(id.File) {
		return span.Span{File: id.File}
	}

	return r.files[id.File.ToIndex()].Document.TokenIDToSpan(id)
}

// TokenIDToOriginDoc returns the raw document the token was parsed into.
func (r *Registry) TokenIDToOriginDoc(id span.TokenID) (*livenode.Document, bool) {
	if !r.validFile(id.File) {
		return nil, false
	}

	return r.files[id.File.ToIndex()].Document, true
}

// TokenIDToExpandedDoc returns the expanded document of the token's file.
func (r *Registry) TokenIDToExpandedDoc(id span.TokenID) (*livenode.Document, bool) {
	return r.FileIDToDoc(id.File)
}

// FileIDToDoc returns the expanded document of a file.
func (r *Registry) FileIDToDoc(id span.FileID) (*livenode.Document, bool) {
	if !r.validFile(id) {
		return nil, false
	}

	return r.expanded[id.ToIndex()], true
}

// PtrToDoc returns the expanded document a pointer addresses.
func (r *Registry) PtrToDoc(ptr livenode.Pointer) (*livenode.Document, bool) {
	doc, ok := r.FileIDToDoc(ptr.File)
	if !ok || int(ptr.Index) >= len(doc.Nodes) {
		return nil, false
	}

	return doc, true
}

// PtrToNode returns the expanded node a pointer addresses.
func (r *Registry) PtrToNode(ptr livenode.Pointer) (*livenode.Node, bool) {
	doc, ok := r.PtrToDoc(ptr)
	if !ok {
		return nil, false
	}

	return &doc.Nodes[ptr.Index], true
}

// PtrToDocNode returns the addressed node together with its node array.
func (r *Registry) PtrToDocNode(ptr livenode.Pointer) (DocNodes, bool) {
	doc, ok := r.PtrToDoc(ptr)
	if !ok {
		return DocNodes{}, false
	}

	return DocNodes{Nodes: doc.Nodes, File: ptr.File, Index: int(ptr.Index)}, true
}

// ModuleAndNameToDoc finds the top-level definition name in the expanded document of module.
func (r *Registry) ModuleAndNameToDoc(module livenode.ModuleID, name string) (DocNodes, bool) {
	id, ok := r.moduleToFile[module]
	if !ok {
		return DocNodes{}, false
	}

	doc := r.expanded[id.ToIndex()]
	if len(doc.Nodes) == 0 {
		return DocNodes{}, false
	}

	index, ok := doc.Nodes.ChildByName(0, name)
	if !ok {
		return DocNodes{}, false
	}

	return DocNodes{Nodes: doc.Nodes, File: id, Index: index}, true
}

// ModuleAndNameToPtr is ModuleAndNameToDoc returning only the pointer.
func (r *Registry) ModuleAndNameToPtr(module livenode.ModuleID, name string) (livenode.Pointer, bool) {
	found, ok := r.ModuleAndNameToDoc(module, name)
	if !ok {
		return livenode.Pointer{}, false
	}

	return found.Ptr(), true
}

// IsStale reports whether the expanded document of a file needs to be rebuilt.
func (r *Registry) IsStale(id span.FileID) bool {
	if !r.validFile(id) {
		return false
	}

	return r.expanded[id.ToIndex()].Stale
}

// LiveErrorToFileError attaches the registered file name to an expansion error.
func (r *Registry) LiveErrorToFileError(err *span.LiveError) *span.FileError {
	return err.ToFileError(r.FileIDToFileName(err.Span.File))
}
