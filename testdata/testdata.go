// Package testdata embeds the acceptance scenarios. Every scenario directory holds a
// src/ tree of live sources and an expected.json with the dependency order, the
// error locations and the expected dumps.
package testdata

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

//go:embed acceptance
var Acceptance embed.FS

// Pattern for scenario directories: 3 digits followed by a name
var scenarioPattern = regexp.MustCompile(`^[0-9]{3}_.+$`)

// Cases returns the names of the acceptance scenarios in order.
func Cases() ([]string, error) {
	entries, err := fs.ReadDir(Acceptance, "acceptance")
	if err != nil {
		return nil, fmt.Errorf("failed to read acceptance directory: %w", err)
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() && scenarioPattern.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// Sources returns the source tree of a scenario.
func Sources(name string) (fs.FS, error) {
	return fs.Sub(Acceptance, path.Join("acceptance", name, "src"))
}

// Expected reads the expected.json of a scenario.
func Expected(name string) ([]byte, error) {
	return fs.ReadFile(Acceptance, path.Join("acceptance", name, "expected.json"))
}

// IsErrorCase checks if a scenario expects errors
func IsErrorCase(name string) bool {
	return strings.HasSuffix(name, "_err")
}
