package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/snaplive/inspect"
	"github.com/shibukawa/snaplive/livenode"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Dir string `arg:"" help:"Input directory (default: input_dir of the configuration)" optional:"" type:"path"`
}

func (c *CheckCmd) Run(ctx *Context) error {
	s, err := openSession(ctx, c.Dir)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.New(color.FgBlue).Fprintf(ctx.Stderr, "Checked %d files in %s\n", len(s.loaded.Files), s.config.InputDir)
	}

	if len(s.errors) > 0 {
		s.printErrors(ctx.Stderr, color.New(color.FgRed))
		return fmt.Errorf("%w: %d errors", ErrCheckFailed, len(s.errors))
	}

	if !ctx.Quiet {
		color.New(color.FgGreen).Fprintf(ctx.Stdout, "%d files compiled successfully\n", len(s.loaded.Files))
	}

	return nil
}

// DumpCmd represents the dump command
type DumpCmd struct {
	Module string `arg:"" help:"Module to dump, e.g. app::widgets"`
	Name   string `help:"Dump only this top-level definition" short:"n"`
	Format string `help:"Output format" default:"yaml" enum:"yaml,json,csv" short:"f"`
	Dir    string `help:"Input directory (default: input_dir of the configuration)" short:"d" type:"path"`
}

func (d *DumpCmd) Run(ctx *Context) error {
	s, err := openSession(ctx, d.Dir)
	if err != nil {
		return err
	}

	if !ctx.Quiet {
		s.printErrors(ctx.Stderr, color.New(color.FgYellow))
	}

	module := livenode.ModuleID(d.Module)

	fileID, ok := s.registry.ModuleToFileID(module)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}

	var entry inspect.Entry

	if d.Name == "" {
		entry, err = inspect.Tree(s.registry, fileID)
	} else {
		ptr, found := s.registry.ModuleAndNameToPtr(module, d.Name)
		if !found {
			return fmt.Errorf("%w: %s::%s", ErrUnknownName, module, d.Name)
		}

		entry, err = inspect.Subtree(s.registry, ptr)
	}

	if err != nil {
		return err
	}

	var out []byte

	switch d.Format {
	case "json":
		out, err = inspect.ToJSON(entry, true)
		out = append(out, '\n')
	case "csv":
		out, err = inspect.EntriesCSV(entry, true)
	default:
		out, err = inspect.ToYAML(entry)
	}

	if err != nil {
		return err
	}

	_, err = ctx.Stdout.Write(out)

	return err
}

// OrderCmd represents the order command
type OrderCmd struct {
	Dir string `arg:"" help:"Input directory (default: input_dir of the configuration)" optional:"" type:"path"`
}

func (o *OrderCmd) Run(ctx *Context) error {
	s, err := openSession(ctx, o.Dir)
	if err != nil {
		return err
	}

	for _, module := range s.registry.DepOrder() {
		line := string(module)

		if _, registered := s.registry.ModuleToFileID(module); !registered {
			line = color.New(color.FgYellow).Sprintf("%s (missing)", module)
		}

		if deps := s.registry.Dependencies(module); len(deps) > 0 {
			names := make([]string, len(deps))
			for i, dep := range deps {
				names[i] = string(dep)
			}

			line += " -> " + strings.Join(names, ", ")
		}

		fmt.Fprintln(ctx.Stdout, line)
	}

	return nil
}
