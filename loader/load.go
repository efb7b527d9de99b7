package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/shibukawa/snaplive"
	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/markdownparser"
	"github.com/shibukawa/snaplive/registry"
	"github.com/shibukawa/snaplive/span"
)

const markdownExtension = ".md"

// Entry is one discovered file.
type Entry struct {
	Path   string // relative to the input directory, slash separated; also the registered file name
	Module livenode.ModuleID
	ID     span.FileID // span.NoFile when registration failed
}

// Result summarizes a Load.
type Result struct {
	Files  []Entry
	Types  []livenode.TypeInfo
	Errors []*span.FileError
}

type options struct {
	logger *slog.Logger
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger used for progress tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Load discovers the sources under cfg.InputDir and registers each of them.
// Problems of single files are collected in Result.Errors; the returned error is
// reserved for failures that stop loading altogether.
func Load(reg *registry.Registry, cfg *snaplive.Config, opts ...Option) (*Result, error) {
	if err := checkDir(cfg.InputDir); err != nil {
		return nil, err
	}

	return LoadFS(reg, os.DirFS(cfg.InputDir), cfg, opts...)
}

// LoadFS is Load reading from fsys instead of cfg.InputDir.
// A relative cfg.TypesFile is read from fsys as well.
func LoadFS(reg *registry.Registry, fsys fs.FS, cfg *snaplive.Config, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	result := &Result{}

	if cfg.TypesFile != "" {
		types, err := readTypes(fsys, cfg.TypesFile)
		if err != nil {
			return nil, err
		}

		result.Types = types
	}

	paths, err := DiscoverFS(fsys, cfg.Extensions, cfg.IgnoreFile)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("discovered sources", "dir", cfg.InputDir, "count", len(paths))

	for _, rel := range paths {
		entry := Entry{Path: rel, Module: ModuleForPath(cfg.Crate, rel)}

		id, err := registerFile(reg, fsys, &entry, result.Types)
		if err != nil {
			o.logger.Debug("failed to register source", "file", rel, "error", err)
			result.Errors = append(result.Errors, asFileError(rel, err))
		}

		entry.ID = id
		result.Files = append(result.Files, entry)
	}

	return result, nil
}

func readTypes(fsys fs.FS, name string) ([]livenode.TypeInfo, error) {
	if filepath.IsAbs(name) {
		return LoadTypes(name)
	}

	data, err := fs.ReadFile(fsys, path.Clean(filepath.ToSlash(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to read type file: %w", err)
	}

	return ParseTypes(data)
}

func registerFile(reg *registry.Registry, fsys fs.FS, entry *Entry, types []livenode.TypeInfo) (span.FileID, error) {
	content, err := fs.ReadFile(fsys, entry.Path)
	if err != nil {
		return span.NoFile, fmt.Errorf("%w: %w", ErrReadSource, err)
	}

	source := string(content)
	start := span.TextPos{}

	if path.Ext(entry.Path) == markdownExtension {
		md, err := markdownparser.Parse(bytes.NewReader(content))
		if err != nil {
			return span.NoFile, err
		}

		if md.Module != "" {
			entry.Module = livenode.ModuleID(md.Module)
		}

		source = md.Source
		start.Line = uint32(md.StartLine)
	}

	return reg.Register(entry.Path, entry.Module, source, types, start)
}

func asFileError(name string, err error) *span.FileError {
	var fileErr *span.FileError
	if errors.As(err, &fileErr) {
		return fileErr
	}

	return &span.FileError{FileName: name, Message: err.Error(), Err: err}
}
