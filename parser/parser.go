// Package parser builds the flat node document of a live source from its token stream.
package parser

import (
	"strconv"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/span"
	"github.com/shibukawa/snaplive/tokenizer"
)

// Parse converts a token stream into a document. The root of the document is an
// anonymous object at index 0 and the last node is its Close.
// Object prefixes that name one of types instantiate that type; any other prefix is a class parent.
// Errors are *span.LiveError wrapping one of the sentinel errors of this package.
func Parse(tokens []tokenizer.TokenWithSpan, strs []rune, file span.FileID, types []livenode.TypeInfo) (*livenode.Document, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Token.Type != tokenizer.EOF {
		return nil, span.NewLiveError(span.Span{File: file}, ErrInvalidStream, "missing EOF token")
	}

	doc := livenode.NewDocument()
	doc.Strings = strs
	doc.Tokens = tokens

	p := &parser{
		file:   file,
		tokens: tokens,
		input:  toParserTokens(tokens),
		pctx:   pc.NewParseContext[lexeme](),
		types:  types,
		doc:    doc,
	}

	p.emit(0, "", livenode.Object{})

	if err := p.parseItems(); err != nil {
		return nil, err
	}

	return doc, nil
}

type parser struct {
	file   span.FileID
	tokens []tokenizer.TokenWithSpan
	input  []pc.Token[lexeme]
	pctx   *pc.ParseContext[lexeme]
	pos    int
	types  []livenode.TypeInfo
	doc    *livenode.Document
}

func (p *parser) parseItems() error {
	depth := 0

	for {
		token := p.peek(0)

		switch {
		case token.Type == tokenizer.EOF:
			if depth > 0 {
				return p.errorAt(p.pos, ErrUnexpectedEOF, "%d object(s) are not closed", depth)
			}

			p.emit(p.pos, "", livenode.Close{})

			return nil
		case token.IsPunct("}"):
			if depth == 0 {
				return p.errorAt(p.pos, ErrUnexpectedToken, "unbalanced '}'")
			}

			p.emit(p.pos, "", livenode.Close{})
			p.pos++
			p.skipSeparator()

			depth--
		case token.IsIdent("use") && !p.peek(1).IsPunct(":"):
			if err := p.parseUse(); err != nil {
				return err
			}
		default:
			opened, err := p.parseProperty()
			if err != nil {
				return err
			}

			if opened {
				depth++
			}
		}
	}
}

func (p *parser) parseUse() error {
	consumed, ok := p.match(useStatement)
	if !ok {
		return p.errorAt(p.pos+1, ErrInvalidUse, "module path expected after 'use'")
	}

	var segments []string

	last := p.pos
	for i := p.pos + 1; i < p.pos+consumed; i++ {
		token := p.tokens[i].Token
		if token.Type == tokenizer.IDENTIFIER || token.IsPunct("*") {
			if len(segments) > 0 && segments[len(segments)-1] == "*" {
				return p.errorAt(i, ErrInvalidUse, "'*' must be the last path segment")
			}

			segments = append(segments, token.Value)
			last = i
		}
	}

	if len(segments) < 2 {
		return p.errorAt(last, ErrInvalidUse, "use path needs a module and a name")
	}

	name := segments[len(segments)-1]
	if name == "*" {
		name = ""
	}

	p.emit(last, name, livenode.Use{Module: livenode.ModuleFromPath(segments[:len(segments)-1]...)})
	p.pos += consumed

	return nil
}

// parseProperty parses "name: value" and reports whether the value opened an object.
func (p *parser) parseProperty() (bool, error) {
	consumed, ok := p.match(propertyHead)
	if !ok {
		if p.peek(0).Type == tokenizer.IDENTIFIER && p.peek(1).Type == tokenizer.EOF {
			return false, p.errorAt(p.pos+1, ErrUnexpectedEOF, "':' expected")
		}

		return false, p.errorAt(p.pos, ErrUnexpectedToken, "property name expected, got %s", p.peek(0))
	}

	nameIndex := p.pos
	name := p.tokens[nameIndex].Token.Value
	p.pos += consumed

	return p.parseValue(nameIndex, name)
}

func (p *parser) parseValue(nameIndex int, name string) (bool, error) {
	token := p.peek(0)

	switch {
	case token.Type == tokenizer.EOF:
		return false, p.errorAt(p.pos, ErrUnexpectedEOF, "value expected for %q", name)
	case token.IsPunct("#"):
		value, err := p.parseColor()
		if err != nil {
			return false, err
		}

		p.emit(nameIndex, name, value)
	case token.Type == tokenizer.IDENTIFIER && isVectorKeyword(token.Value) && p.peek(1).IsPunct("("):
		value, err := p.parseVector()
		if err != nil {
			return false, err
		}

		p.emit(nameIndex, name, value)
	case token.Type == tokenizer.NUMBER || token.IsPunct("-"):
		consumed, ok := p.match(signedNumber)
		if !ok {
			return false, p.errorAt(p.pos+1, ErrUnexpectedToken, "number expected after '-'")
		}

		value, err := p.numberValue(p.pos+consumed-1, consumed == 2)
		if err != nil {
			return false, err
		}

		p.emit(nameIndex, name, value)
		p.pos += consumed
	case token.IsIdent("true") || token.IsIdent("false"):
		p.emit(nameIndex, name, livenode.Bool(token.Value == "true"))
		p.pos++
	case token.Type == tokenizer.STRING:
		p.emit(nameIndex, name, livenode.Str{Index: token.Index, Len: token.Len})
		p.pos++
	case token.IsPunct("{") || (token.Type == tokenizer.IDENTIFIER && p.peek(1).IsPunct("{")):
		consumed, _ := p.match(objectOpen)
		p.emit(nameIndex, name, p.objectValue(consumed))
		p.pos += consumed

		return true, nil
	case token.Type == tokenizer.IDENTIFIER:
		p.emit(nameIndex, name, livenode.IDRef{Name: token.Value})
		p.pos++
	default:
		return false, p.errorAt(p.pos, ErrUnexpectedToken, "value expected for %q, got %s", name, token)
	}

	p.skipSeparator()

	return false, nil
}

func (p *parser) objectValue(consumed int) livenode.Object {
	if consumed < 2 {
		return livenode.Object{}
	}

	prefix := p.tokens[p.pos].Token.Value
	if info, ok := livenode.TypeInfoByName(p.types, prefix); ok {
		return livenode.Object{Type: info.Type}
	}

	return livenode.Object{ParentName: prefix}
}

func (p *parser) parseColor() (livenode.Value, error) {
	consumed, ok := p.match(colorLiteral)
	if !ok {
		return nil, p.errorAt(p.pos, ErrInvalidLiteral, "hex digits expected after '#'")
	}

	digits := p.tokens[p.pos+1].Token.Value

	color, err := parseHexColor(digits)
	if err != nil {
		return nil, p.errorAt(p.pos+1, ErrInvalidLiteral, "invalid color #%s", digits)
	}

	p.pos += consumed

	return livenode.Color(color), nil
}

func (p *parser) parseVector() (livenode.Value, error) {
	consumed, ok := p.match(vectorLiteral)
	if !ok {
		return nil, p.errorAt(p.pos, ErrInvalidVector, "malformed %s literal", p.peek(0).Value)
	}

	keyword := p.tokens[p.pos].Token.Value

	var components []float64

	negative := false
	for i := p.pos + 2; i < p.pos+consumed; i++ {
		token := p.tokens[i].Token

		switch {
		case token.IsPunct("-"):
			negative = true
		case token.Type == tokenizer.NUMBER:
			value, err := p.numberValue(i, negative)
			if err != nil {
				return nil, err
			}

			switch v := value.(type) {
			case livenode.Int:
				components = append(components, float64(v))
			case livenode.Float:
				components = append(components, float64(v))
			}

			negative = false
		}
	}

	size := int(keyword[3] - '0')
	if len(components) != size {
		return nil, p.errorAt(p.pos, ErrInvalidVector, "%s needs %d components, got %d", keyword, size, len(components))
	}

	p.pos += consumed

	switch size {
	case 2:
		return livenode.Vec2(components), nil
	case 3:
		return livenode.Vec3(components), nil
	default:
		return livenode.Vec4(components), nil
	}
}

// numberValue converts the NUMBER token at index into an Int or a Float.
func (p *parser) numberValue(index int, negative bool) (livenode.Value, error) {
	text := strings.ReplaceAll(p.tokens[index].Token.Value, "_", "")
	if negative {
		text = "-" + text
	}

	digits := strings.TrimPrefix(text, "-")
	isHex := strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X")

	if !isHex && strings.ContainsAny(digits, ".eE") {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorAt(index, ErrInvalidLiteral, "invalid number %s", text)
		}

		return livenode.Float(v), nil
	}

	base := 10
	if isHex {
		base = 16
		digits = digits[2:]
	}

	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return nil, p.errorAt(index, ErrInvalidLiteral, "invalid number %s", text)
	}

	if negative {
		v = -v
	}

	return livenode.Int(v), nil
}

func (p *parser) match(pattern pc.Parser[lexeme]) (int, bool) {
	consumed, _, err := pattern(p.pctx, p.input[p.pos:])
	if err != nil || consumed == 0 {
		return 0, false
	}

	return consumed, true
}

func (p *parser) skipSeparator() {
	if _, ok := p.match(pc.Or(comma, semicolon)); ok {
		p.pos++
	}
}

// peek returns the token n positions ahead, clamped to EOF
func (p *parser) peek(n int) tokenizer.Token {
	index := min(p.pos+n, len(p.tokens)-1)

	return p.tokens[index].Token
}

func (p *parser) emit(tokenIndex int, name string, value livenode.Value) {
	p.doc.Nodes = append(p.doc.Nodes, livenode.Node{
		Origin: livenode.Origin{
			Token: span.NewTokenID(p.file, tokenIndex),
			Node:  len(p.doc.Nodes),
		},
		ID:    name,
		Value: value,
	})
}

func (p *parser) errorAt(tokenIndex int, sentinel error, format string, args ...any) error {
	index := min(tokenIndex, len(p.tokens)-1)

	return span.NewLiveError(p.tokens[index].Span, sentinel, format, args...)
}

func isVectorKeyword(word string) bool {
	return word == "vec2" || word == "vec3" || word == "vec4"
}

// parseHexColor expands 1, 2, 3, 4, 6 or 8 hex digits into 0xRRGGBBAA.
func parseHexColor(digits string) (uint32, error) {
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, err
	}

	c := uint32(v)
	nibble := func(shift uint) uint32 { return ((c >> shift) & 0xf) * 0x11 }

	switch len(digits) {
	case 1:
		g := nibble(0)
		return g<<24 | g<<16 | g<<8 | 0xff, nil
	case 2:
		return c<<24 | c<<16 | c<<8 | 0xff, nil
	case 3:
		return nibble(8)<<24 | nibble(4)<<16 | nibble(0)<<8 | 0xff, nil
	case 4:
		return nibble(12)<<24 | nibble(8)<<16 | nibble(4)<<8 | nibble(0), nil
	case 6:
		return c<<8 | 0xff, nil
	case 8:
		return c, nil
	default:
		return 0, strconv.ErrSyntax
	}
}
