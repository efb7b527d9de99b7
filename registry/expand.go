package registry

import (
	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/span"
)

// Expander builds the expanded document of one file.
// It reads in, writes out (already reset and sharing in's strings and tokens) and
// appends semantic problems to errs. Dependencies of module are expanded already.
type Expander interface {
	Expand(r *Registry, module livenode.ModuleID, file span.FileID, in, out *livenode.Document, errs *[]span.LiveError)
}

// ExpandFunc adapts a function to Expander.
type ExpandFunc func(r *Registry, module livenode.ModuleID, file span.FileID, in, out *livenode.Document, errs *[]span.LiveError)

// Expand calls f.
func (f ExpandFunc) Expand(r *Registry, module livenode.ModuleID, file span.FileID, in, out *livenode.Document, errs *[]span.LiveError) {
	f(r, module, file, in, out, errs)
}

// ExpandAll rebuilds every stale expanded document in dependency order.
// Modules without a registered file are skipped; they are expanded once registered.
func (r *Registry) ExpandAll(errs *[]span.LiveError) {
	for _, module := range r.DepOrder() {
		fileID, ok := r.moduleToFile[module]
		if !ok {
			r.logger.Debug("skipped unregistered module", "module", module)
			continue
		}

		index := fileID.ToIndex()
		if !r.expanded[index].Stale {
			continue
		}

		in := r.files[index].Document

		out := r.expanded[index]
		r.expanded[index] = livenode.NewDocument()
		out.RestartFrom(in)

		before := len(*errs)
		r.expander.Expand(r, module, fileID, in, out, errs)

		out.Stale = false
		r.expanded[index] = out

		r.logger.Debug("expanded", "module", module, "file", r.files[index].Name,
			"nodes", len(out.Nodes), "errors", len(*errs)-before)
	}
}
