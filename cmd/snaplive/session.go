package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/shibukawa/snaplive"
	"github.com/shibukawa/snaplive/loader"
	"github.com/shibukawa/snaplive/logger"
	"github.com/shibukawa/snaplive/registry"
	"github.com/shibukawa/snaplive/span"
)

// session is one load and expansion of the configured sources
type session struct {
	config   *snaplive.Config
	registry *registry.Registry
	loaded   *loader.Result
	errors   []*span.FileError // load errors followed by expansion errors
	logger   *slog.Logger
}

func openSession(ctx *Context, dir string) (*session, error) {
	config, err := snaplive.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if dir != "" {
		config.InputDir = dir
	}

	level := config.Log.Level
	if ctx.Verbose {
		level = "debug"
	}

	log, err := logger.Setup(config.Log.Format, level, ctx.Stderr)
	if err != nil {
		return nil, err
	}

	s := &session{
		config:   config,
		registry: registry.New(registry.WithLogger(log)),
		logger:   log,
	}

	s.loaded, err = loader.Load(s.registry, config, loader.WithLogger(log))
	if err != nil {
		return nil, err
	}

	s.errors = append(s.errors, s.loaded.Errors...)

	var liveErrs []span.LiveError
	s.registry.ExpandAll(&liveErrs)

	for i := range liveErrs {
		s.errors = append(s.errors, s.registry.LiveErrorToFileError(&liveErrs[i]))
	}

	return s, nil
}

func (s *session) printErrors(w io.Writer, c *color.Color) {
	for _, err := range s.errors {
		c.Fprintln(w, err.Error())
	}
}
