package markdownparser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cast"
)

// parseFrontMatter extracts YAML front matter from markdown content.
// It returns the metadata, the remaining content and the number of lines the front matter took.
func parseFrontMatter(content string) (map[string]any, string, int, error) {
	// Check if content starts with front matter delimiter
	if !strings.HasPrefix(content, "---\n") {
		return make(map[string]any), content, 0, nil
	}

	// Find the closing delimiter
	endIndex := strings.Index(content[4:], "\n---")
	if endIndex == -1 {
		return nil, "", 0, ErrInvalidFrontMatter
	}

	endIndex += 4 // Adjust for the initial slice

	frontMatterContent := content[4:endIndex]

	// the remaining content starts on the line after the closing delimiter
	rest := ""
	consumed := len(content)

	if newline := strings.IndexByte(content[endIndex+4:], '\n'); newline != -1 {
		consumed = endIndex + 4 + newline + 1
		rest = content[consumed:]
	}

	lines := strings.Count(content[:consumed], "\n")
	if consumed == len(content) && !strings.HasSuffix(content, "\n") {
		lines++
	}

	frontMatter := make(map[string]any)

	if err := yaml.Unmarshal([]byte(frontMatterContent), &frontMatter); err != nil {
		return nil, "", 0, fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	if frontMatter == nil {
		frontMatter = make(map[string]any)
	}

	return frontMatter, rest, lines, nil
}

// moduleFromFrontMatter reads the optional "module" key.
func moduleFromFrontMatter(frontMatter map[string]any) (string, error) {
	raw, ok := frontMatter["module"]
	if !ok || raw == nil {
		return "", nil
	}

	module, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("%w: module must be a string: %w", ErrInvalidFrontMatter, err)
	}

	return strings.TrimSpace(module), nil
}
