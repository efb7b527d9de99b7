package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"
)

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, content := range files {
		path := filepath.Join(dir, name)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return dir
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	color.NoColor = true

	var stdout, stderr bytes.Buffer

	// a config path that does not exist selects the defaults
	args = append([]string{"--config", filepath.Join(t.TempDir(), "snaplive.yaml")}, args...)
	code := run(args, &stdout, &stderr)

	return code, stdout.String(), stderr.String()
}

var validSources = map[string]string{
	"theme.live":  "Primary: #f00",
	"button.live": "use crate::theme::Primary\nB: { c: Primary }",
}

func TestCheckCmd(t *testing.T) {
	t.Run("valid sources", func(t *testing.T) {
		dir := writeSources(t, validSources)

		code, stdout, stderr := execute(t, "check", dir)
		assert.Equal(t, 0, code, stderr)
		assert.Equal(t, "2 files compiled successfully\n", stdout)
	})

	t.Run("errors are reported with their location", func(t *testing.T) {
		dir := writeSources(t, map[string]string{
			"bad.live":    "x: nope",
			"broken.live": "y: 'a'",
		})

		code, stdout, stderr := execute(t, "check", dir)
		assert.Equal(t, 1, code)
		assert.Equal(t, "", stdout)
		assert.Contains(t, stderr, "broken.live:1:4: ")
		assert.Contains(t, stderr, "bad.live:1:")
		assert.Contains(t, stderr, `"nope" is not defined`)
		assert.Contains(t, stderr, "Error: live sources have errors: 2 errors")
	})

	t.Run("quiet", func(t *testing.T) {
		dir := writeSources(t, validSources)

		code, stdout, _ := execute(t, "--quiet", "check", dir)
		assert.Equal(t, 0, code)
		assert.Equal(t, "", stdout)
	})
}

func TestDumpCmd(t *testing.T) {
	dir := writeSources(t, validSources)

	t.Run("json", func(t *testing.T) {
		code, stdout, stderr := execute(t, "dump", "app::button", "--name", "B", "--format", "json", "--dir", dir)
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, `"name": "B"`)
		assert.Contains(t, stdout, `"target": "theme.live:1"`)
	})

	t.Run("yaml", func(t *testing.T) {
		code, stdout, stderr := execute(t, "dump", "app::theme", "--dir", dir)
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "kind: object\n")
		assert.Contains(t, stdout, "name: Primary")
	})

	t.Run("csv", func(t *testing.T) {
		code, stdout, stderr := execute(t, "dump", "app::button", "-f", "csv", "-d", dir)
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "B.c,ref,Primary,theme.live:1\n")
	})

	t.Run("unknown module", func(t *testing.T) {
		code, _, stderr := execute(t, "dump", "app::nothing", "--dir", dir)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "unknown module: app::nothing")
	})

	t.Run("unknown name", func(t *testing.T) {
		code, _, stderr := execute(t, "dump", "app::theme", "--name", "Secondary", "--dir", dir)
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "app::theme::Secondary")
	})

	t.Run("invalid format", func(t *testing.T) {
		code, _, _ := execute(t, "dump", "app::theme", "--format", "xml", "--dir", dir)
		assert.Equal(t, 2, code)
	})
}

func TestOrderCmd(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"button.live": "use crate::theme::Primary\nuse lib::icons::*\nB: { c: Primary }",
		"theme.live":  "Primary: #f00",
	})

	code, stdout, stderr := execute(t, "order", dir)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "app::theme\nlib::icons (missing)\napp::button -> app::theme, lib::icons\n", stdout)
}

func TestVersionCmd(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "snaplive "+version+"\n", stdout)
}
