// Package testhelper holds small helpers shared by package tests.
package testhelper

import (
	"strings"
	"testing"
)

// TrimIndent lets tests write live sources as indented raw strings.
// The first line (right after the opening backquote) is dropped, the indentation of the
// second line is removed from every line and remaining leading tabs become 4 spaces.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}

	second := lines[1]
	indent := second[:len(second)-len(strings.TrimLeft(second, " \t"))]

	for i, line := range lines {
		line = strings.TrimPrefix(line, indent)
		trimmed := strings.TrimLeft(line, "\t")
		lines[i] = strings.Repeat("    ", len(line)-len(trimmed)) + trimmed
	}

	return strings.Join(lines[1:], "\n")
}
