// Package markdownparser extracts the live source embedded in a markdown document.
package markdownparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrMissingLiveBlock   = errors.New("missing live code block")
	ErrMultipleLiveBlocks = errors.New("multiple live code blocks")
)

// LiveLanguage is the info string that marks a fenced code block as live source
const LiveLanguage = "live"

// LiveMarkdown is a markdown document carrying one live source block
type LiveMarkdown struct {
	Metadata  map[string]any
	Title     string // first level 1 heading
	Module    string // front matter "module", empty when not set
	Source    string
	StartLine int // zero-based line of the first source line in the markdown file
}

// Parse parses a markdown document and returns its live block
func Parse(reader io.Reader) (*LiveMarkdown, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	normalized := strings.ReplaceAll(string(content), "\r\n", "\n")

	frontMatter, body, frontMatterLines, err := parseFrontMatter(normalized)
	if err != nil {
		return nil, err
	}

	module, err := moduleFromFrontMatter(frontMatter)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	source := []byte(body)
	doc := md.Parser().Parse(text.NewReader(source))

	result := &LiveMarkdown{
		Metadata: frontMatter,
		Module:   module,
	}

	var blocks []*ast.FencedCodeBlock

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && result.Title == "" {
				result.Title = extractTextFromHeadingNode(node, source)
			}
		case *ast.FencedCodeBlock:
			if isLiveCodeBlock(node, source) {
				blocks = append(blocks, node)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	switch len(blocks) {
	case 0:
		return nil, ErrMissingLiveBlock
	case 1:
	default:
		return nil, fmt.Errorf("%w: found %d", ErrMultipleLiveBlocks, len(blocks))
	}

	result.Source = extractCodeBlockContent(blocks[0], source)
	result.StartLine = frontMatterLines + codeBlockStartLine(blocks[0], source)

	return result, nil
}

func extractTextFromHeadingNode(heading ast.Node, content []byte) string {
	var result strings.Builder

	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			segment := node.Segment
			result.Write(content[segment.Start:segment.Stop])
		case *ast.String:
			result.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

// isLiveCodeBlock checks the first word of the info string
func isLiveCodeBlock(codeBlock *ast.FencedCodeBlock, content []byte) bool {
	if codeBlock.Info == nil {
		return false
	}

	segment := codeBlock.Info.Segment
	fields := strings.Fields(string(content[segment.Start:segment.Stop]))

	return len(fields) > 0 && strings.EqualFold(fields[0], LiveLanguage)
}

func extractCodeBlockContent(codeBlock *ast.FencedCodeBlock, content []byte) string {
	var result strings.Builder

	lines := codeBlock.Lines()
	for i := range lines.Len() {
		segment := lines.At(i)
		result.Write(segment.Value(content))
	}

	return strings.TrimSuffix(result.String(), "\n")
}

// codeBlockStartLine returns the zero-based line of the first content line of the block
func codeBlockStartLine(codeBlock *ast.FencedCodeBlock, content []byte) int {
	if lines := codeBlock.Lines(); lines.Len() > 0 {
		return bytes.Count(content[:lines.At(0).Start], []byte("\n"))
	}

	// empty block: the line after the opening fence
	if codeBlock.Info != nil {
		return bytes.Count(content[:codeBlock.Info.Segment.Start], []byte("\n")) + 1
	}

	return 0
}
