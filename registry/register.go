package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/parser"
	"github.com/shibukawa/snaplive/span"
	"github.com/shibukawa/snaplive/tokenizer"
)

// dependency is an edge from the registered module, with the token that introduced it
type dependency struct {
	module livenode.ModuleID
	token  span.TokenID
}

// Register adds or replaces the source of fileName. start is the position of the
// first character of source in the real file.
//
// Lexical, parse and dependency cycle errors are returned as *span.FileError and
// leave the registry untouched. Re-registering identical content is a no-op.
// A type id that reappears under a different module panics with ErrTypeConflict.
func (r *Registry) Register(fileName string, module livenode.ModuleID, source string, types []livenode.TypeInfo, start span.TextPos) (span.FileID, error) {
	fileID, exists := r.fileIDs[fileName]
	if exists && r.unchanged(fileID, module, source, start, types) {
		r.logger.Debug("file is unchanged", "file", fileName, "module", module)
		return fileID, nil
	}

	if !exists {
		fileID = span.FileIDFromIndex(len(r.files))
	}

	tokens, strs, err := tokenizer.Tokenize(source, start, fileID)
	if err != nil {
		return span.NoFile, toFileError(fileName, err)
	}

	doc, err := parser.Parse(tokens, strs, fileID, r.parserTypes(types))
	if err != nil {
		return span.NoFile, toFileError(fileName, err)
	}

	r.checkTypeConflicts(types)

	resolveSelfModule(doc, module)

	deps := r.collectDependencies(module, doc, types)
	if cycle := r.findCycle(module, deps); cycle != nil {
		return span.NoFile, &span.FileError{
			FileName: fileName,
			Span:     doc.TokenIDToSpan(cycle.token),
			Message:  "dependency cycle: " + joinModules(cycle.path),
			Err:      ErrDependencyCycle,
		}
	}

	// no error can happen from here on
	r.mergeTypes(types)

	if exists {
		if previous := r.files[fileID.ToIndex()].Module; previous != module {
			r.forgetModule(previous, fileID)
		}
	}

	if slices.Contains(r.depOrder, module) {
		r.markStale(module)
	} else {
		r.depOrder = append(r.depOrder, module)
	}

	edges := make(map[livenode.ModuleID]struct{}, len(deps))
	for _, dep := range deps {
		edges[dep.module] = struct{}{}
		r.placeBefore(dep.module, module)
	}

	r.depGraph[module] = edges

	if other, ok := r.moduleToFile[module]; ok && other != fileID {
		r.logger.Warn("module is registered by another file", "module", module,
			"previous", r.files[other.ToIndex()].Name, "file", fileName)
	}

	r.moduleToFile[module] = fileID
	r.fileIDs[fileName] = fileID

	file := &File{
		Name:     fileName,
		Module:   module,
		Start:    start,
		Source:   source,
		Document: doc,
	}

	if exists {
		r.files[fileID.ToIndex()] = file
		r.expanded[fileID.ToIndex()].Stale = true
	} else {
		r.files = append(r.files, file)
		r.expanded = append(r.expanded, livenode.NewDocument())
	}

	r.logger.Debug("registered file", "file", fileName, "module", module, "id", fileID, "dependencies", len(deps))

	return fileID, nil
}

func (r *Registry) unchanged(fileID span.FileID, module livenode.ModuleID, source string, start span.TextPos, types []livenode.TypeInfo) bool {
	file := r.files[fileID.ToIndex()]
	if file.Module != module || file.Source != source || file.Start != start {
		return false
	}

	for _, info := range types {
		registered, ok := r.typeInfos[info.Type]
		if !ok || !sameTypeInfo(registered, info) {
			return false
		}
	}

	return true
}

func sameTypeInfo(a, b livenode.TypeInfo) bool {
	return a.Type == b.Type && a.Module == b.Module && a.Name == b.Name && slices.Equal(a.Fields, b.Fields)
}

func (r *Registry) checkTypeConflicts(types []livenode.TypeInfo) {
	for _, info := range types {
		if registered, ok := r.typeInfos[info.Type]; ok && registered.Module != info.Module {
			panic(fmt.Errorf("%w: type %s (%s) is owned by %s, registered again by %s",
				ErrTypeConflict, info.Name, info.Type, registered.Module, info.Module))
		}
	}
}

// parserTypes lists the supplied types first, then every other registered type.
func (r *Registry) parserTypes(types []livenode.TypeInfo) []livenode.TypeInfo {
	result := slices.Clone(types)
	for _, id := range r.typeOrder {
		if !slices.ContainsFunc(types, func(info livenode.TypeInfo) bool { return info.Type == id }) {
			result = append(result, r.typeInfos[id])
		}
	}

	return result
}

func (r *Registry) mergeTypes(types []livenode.TypeInfo) {
	for _, info := range types {
		if _, ok := r.typeInfos[info.Type]; !ok {
			r.typeOrder = append(r.typeOrder, info.Type)
		}

		r.typeInfos[info.Type] = info
	}
}

func (r *Registry) lookupType(types []livenode.TypeInfo, id livenode.TypeID) (livenode.TypeInfo, bool) {
	for _, info := range types {
		if info.Type == id {
			return info, true
		}
	}

	info, ok := r.typeInfos[id]

	return info, ok
}

// forgetModule drops the bookkeeping of a module whose file now belongs to another module.
func (r *Registry) forgetModule(module livenode.ModuleID, fileID span.FileID) {
	if r.moduleToFile[module] == fileID {
		delete(r.moduleToFile, module)
	}

	delete(r.depGraph, module)
	r.markStale(module)
}

// resolveSelfModule rewrites "crate" heads of use paths to the concrete module.
func resolveSelfModule(doc *livenode.Document, module livenode.ModuleID) {
	for i, node := range doc.Nodes {
		if use, ok := node.Value.(livenode.Use); ok && use.Module.IsSelf() {
			use.Module = use.Module.Resolve(module)
			doc.Nodes[i].Value = use
		}
	}
}

// collectDependencies returns the modules used by doc in first-seen order:
// use targets, the modules of instantiated types and of their fields.
func (r *Registry) collectDependencies(module livenode.ModuleID, doc *livenode.Document, types []livenode.TypeInfo) []dependency {
	var deps []dependency

	add := func(dep livenode.ModuleID, token span.TokenID) {
		if dep == "" || dep == module {
			return
		}

		if slices.ContainsFunc(deps, func(d dependency) bool { return d.module == dep }) {
			return
		}

		deps = append(deps, dependency{module: dep, token: token})
	}

	for _, node := range doc.Nodes {
		switch v := node.Value.(type) {
		case livenode.Use:
			add(v.Module, node.Origin.Token)
		case livenode.Object:
			if v.Type.IsZero() {
				continue
			}

			info, ok := r.lookupType(types, v.Type)
			if !ok {
				continue
			}

			add(info.Module, node.Origin.Token)

			for _, field := range info.Fields {
				add(field.Module, node.Origin.Token)
			}
		}
	}

	return deps
}

func toFileError(fileName string, err error) *span.FileError {
	var liveErr *span.LiveError
	if errors.As(err, &liveErr) {
		return liveErr.ToFileError(fileName)
	}

	return &span.FileError{FileName: fileName, Message: err.Error(), Err: err}
}

func joinModules(modules []livenode.ModuleID) string {
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = string(m)
	}

	return strings.Join(names, " -> ")
}
