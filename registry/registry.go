// Package registry owns every registered live file, keeps the module dependency order
// and drives incremental expansion.
package registry

import (
	"log/slog"

	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/span"
)

// File is one registered source.
type File struct {
	Name     string
	Module   livenode.ModuleID
	Start    span.TextPos
	Source   string
	Document *livenode.Document // raw parse result
}

// Registry is the compilation session. It is not safe for concurrent use.
type Registry struct {
	fileIDs      map[string]span.FileID
	moduleToFile map[livenode.ModuleID]span.FileID

	// index aligned, slot 0 is the empty sentinel
	files    []*File
	expanded []*livenode.Document

	typeInfos map[livenode.TypeID]livenode.TypeInfo
	typeOrder []livenode.TypeID

	depOrder []livenode.ModuleID
	depGraph map[livenode.ModuleID]map[livenode.ModuleID]struct{}

	expander Expander
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithExpander replaces the default expansion transform.
func WithExpander(expander Expander) Option {
	return func(r *Registry) {
		r.expander = expander
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		fileIDs:      make(map[string]span.FileID),
		moduleToFile: make(map[livenode.ModuleID]span.FileID),
		files:        []*File{{Document: &livenode.Document{}}},
		expanded:     []*livenode.Document{{}},
		typeInfos:    make(map[livenode.TypeID]livenode.TypeInfo),
		depGraph:     make(map[livenode.ModuleID]map[livenode.ModuleID]struct{}),
		expander:     ClassExpander{},
		logger:       slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// TypeInfos returns the registered type metadata in registration order.
func (r *Registry) TypeInfos() []livenode.TypeInfo {
	result := make([]livenode.TypeInfo, 0, len(r.typeOrder))
	for _, id := range r.typeOrder {
		result = append(result, r.typeInfos[id])
	}

	return result
}

// TypeInfo returns the metadata of a registered type.
func (r *Registry) TypeInfo(id livenode.TypeID) (livenode.TypeInfo, bool) {
	info, ok := r.typeInfos[id]
	return info, ok
}

func (r *Registry) validFile(id span.FileID) bool {
	return id.IsValid() && id.ToIndex() < len(r.files)
}
