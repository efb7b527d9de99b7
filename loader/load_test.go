package loader

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/snaplive"
	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/registry"
	"github.com/shibukawa/snaplive/span"
	"github.com/shibukawa/snaplive/tokenizer"
)

func testConfig(dir string) *snaplive.Config {
	return &snaplive.Config{
		Crate:      "app",
		InputDir:   dir,
		Extensions: []string{".live", ".md"},
		IgnoreFile: ".liveignore",
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "theme.live", "Primary: #f00\nSize: 4")
	writeFile(t, dir, "widgets/button.live", "use crate::theme::Primary\nButton: { color: Primary }")
	writeFile(t, dir, "docs.md", "---\nmodule: app::guide\n---\n# Guide\n\n```live\nuse crate::theme::*\nswatch: Primary\nmissing: Nope\n```\n")
	writeFile(t, dir, "broken.live", "x: 'a'")

	reg := registry.New()

	result, err := Load(reg, testConfig(dir))
	assert.NoError(t, err)

	modules := make(map[string]livenode.ModuleID)
	for _, entry := range result.Files {
		modules[entry.Path] = entry.Module
	}

	assert.Equal(t, map[string]livenode.ModuleID{
		"broken.live":         "app::broken",
		"docs.md":             "app::guide",
		"theme.live":          "app::theme",
		"widgets/button.live": "app::widgets::button",
	}, modules)

	assert.Equal(t, 1, len(result.Errors))
	assert.Equal(t, "broken.live", result.Errors[0].FileName)
	assert.IsError(t, result.Errors[0], tokenizer.ErrDisallowedSyntax)

	_, ok := reg.ModuleToFileID("app::broken")
	assert.False(t, ok)

	var errs []span.LiveError
	reg.ExpandAll(&errs)
	assert.Equal(t, 1, len(errs))
	assert.IsError(t, &errs[0], registry.ErrUnresolvedName)

	// positions inside markdown are positions of the markdown file
	fileErr := reg.LiveErrorToFileError(&errs[0])
	assert.Equal(t, "docs.md", fileErr.FileName)
	assert.Equal(t, uint32(8), fileErr.Span.Start.Line)

	button, ok := reg.ModuleAndNameToDoc("app::widgets::button", "Button")
	assert.True(t, ok)

	color, ok := button.Nodes.ChildByName(button.Index, "color")
	assert.True(t, ok)

	target := button.Nodes[color].Value.(livenode.IDRef).Target
	primary, ok := reg.ModuleAndNameToPtr("app::theme", "Primary")
	assert.True(t, ok)
	assert.Equal(t, primary, target)
}

func TestLoadIsIncremental(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "a.live", "x: 1")
	writeFile(t, dir, "b.live", "use crate::a::x\ny: x")

	reg := registry.New()
	cfg := testConfig(dir)

	first, err := Load(reg, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(first.Errors))

	var errs []span.LiveError
	reg.ExpandAll(&errs)
	assert.Equal(t, 0, len(errs))

	// unchanged files stay expanded
	second, err := Load(reg, cfg)
	assert.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)

	for _, entry := range second.Files {
		assert.False(t, reg.IsStale(entry.ID), entry.Path)
	}

	// editing a makes b stale as well
	writeFile(t, dir, "a.live", "x: 2")

	_, err = Load(reg, cfg)
	assert.NoError(t, err)

	for _, entry := range second.Files {
		assert.True(t, reg.IsStale(entry.ID), entry.Path)
	}
}

func TestLoadWithTypes(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "types.yaml", "types:\n  - module: lib::ui\n    name: Panel\n")
	writeFile(t, dir, "main.live", "p: Panel { }")

	cfg := testConfig(dir)
	cfg.TypesFile = "types.yaml"

	reg := registry.New()

	result, err := Load(reg, cfg)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(result.Errors))
	assert.Equal(t, 1, len(result.Types))
	assert.Equal(t, []livenode.ModuleID{"lib::ui"}, reg.Dependencies("app::main"))

	cfg.TypesFile = "missing.yaml"
	_, err = Load(registry.New(), cfg)
	assert.Error(t, err)
}
