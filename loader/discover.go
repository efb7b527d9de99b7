// Package loader discovers live sources and registers them in a registry.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/shibukawa/snaplive/livenode"
)

var skipDirs = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"target":       {},
	"build":        {},
	"dist":         {},
}

// moduleFileStem names the module of its directory, like "mod.live" in "widgets/".
const moduleFileStem = "mod"

// Discover returns the sorted slash separated paths, relative to root, of the files
// with one of the given extensions. See DiscoverFS.
func Discover(root string, extensions []string, ignoreFile string) ([]string, error) {
	if err := checkDir(root); err != nil {
		return nil, err
	}

	return DiscoverFS(os.DirFS(root), extensions, ignoreFile)
}

// DiscoverFS walks fsys. Hidden entries and well known build directories are skipped,
// and so is everything matched by .gitignore or ignoreFile at the top of fsys.
func DiscoverFS(fsys fs.FS, extensions []string, ignoreFile string) ([]string, error) {
	ignores := loadIgnoreFiles(fsys, ".gitignore", ignoreFile)

	var results []string

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		if p == "." {
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}

			return nil
		}

		if strings.HasPrefix(name, ".") || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if !slices.Contains(extensions, path.Ext(name)) {
			return nil
		}

		for _, gi := range ignores {
			if gi.MatchesPath(p) {
				return nil
			}
		}

		results = append(results, p)

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(results)

	return results, nil
}

func checkDir(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to read input directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	return nil
}

func loadIgnoreFiles(fsys fs.FS, names ...string) []*ignore.GitIgnore {
	var result []*ignore.GitIgnore

	for _, name := range names {
		if name == "" {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Clean(filepath.ToSlash(name)))
		if err != nil {
			continue
		}

		result = append(result, ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...))
	}

	return result
}

// ModuleForPath derives the module of a file from its path relative to the input directory.
// "widgets/button.live" in crate "app" is "app::widgets::button" and "widgets/mod.live" is "app::widgets".
// Segments are slugged into identifiers: "My Button.live" becomes "my_button".
func ModuleForPath(crate, rel string) livenode.ModuleID {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))

	segments := []string{crate}

	parts := strings.Split(rel, "/")
	if parts[len(parts)-1] == moduleFileStem {
		parts = parts[:len(parts)-1]
	}

	for _, part := range parts {
		if segment := moduleSegment(part); segment != "" {
			segments = append(segments, segment)
		}
	}

	return livenode.ModuleFromPath(segments...)
}

func moduleSegment(part string) string {
	segment := strings.ReplaceAll(slug.Make(part), "-", "_")
	if segment == "" {
		return ""
	}

	if segment[0] >= '0' && segment[0] <= '9' {
		segment = "_" + segment
	}

	return segment
}
