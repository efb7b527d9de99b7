package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/shibukawa/snaplive/span"
)

// lexState is carried from one line to the next
type lexState int

const (
	stateCode lexState = iota
	stateBlockComment
)

// multi-character punctuation, checked before single characters
var multiPuncts = []string{"::", "->", ".."}

const singlePuncts = "{}()[]:;,.=+-*/<>#!&|?^%"

// Tokenize converts source text into a spanned token stream terminated by EOF and
// a string buffer holding the unquoted content of every string literal.
// start is the position of the first character, so sources embedded in other
// files report their real location.
func Tokenize(source string, start span.TextPos, file span.FileID) ([]TokenWithSpan, []rune, error) {
	l := &lexer{
		file:   file,
		tokens: make([]TokenWithSpan, 0, len(source)/3+1),
		pos:    start,
	}

	for _, line := range strings.Split(source, "\n") {
		l.line = []rune(strings.TrimSuffix(line, "\r"))
		l.offset = 0

		if err := l.scanLine(); err != nil {
			return nil, nil, err
		}

		l.pos.Line++
		l.pos.Column = 0
	}

	if l.state == stateBlockComment {
		return nil, nil, span.NewLiveError(l.commentStart, ErrUnterminatedComment, "block comment is not closed")
	}

	// EOF sits at the end of the last line
	l.pos.Line--
	l.pos.Column = l.lastColumn
	l.tokens = append(l.tokens, TokenWithSpan{
		Span:  span.Span{File: file, Start: l.pos, End: l.pos},
		Token: Token{Type: EOF},
	})

	return l.tokens, l.strings, nil
}

// Internal tokenizer implementation
type lexer struct {
	file    span.FileID
	state   lexState
	line    []rune
	offset  int         // rune offset inside line
	pos     span.TextPos // position of line[0]
	tokens  []TokenWithSpan
	strings []rune

	commentStart span.Span
	lastColumn   uint32
}

func (l *lexer) scanLine() error {
	defer func() {
		l.lastColumn = l.pos.Column + uint32(len(l.line))
	}()

	for l.offset < len(l.line) {
		if l.state == stateBlockComment {
			l.skipBlockComment()
			continue
		}

		c := l.line[l.offset]

		switch {
		case unicode.IsSpace(c):
			l.offset++
		case c == '/' && l.peek(1) == '/':
			l.offset = len(l.line)
		case c == '/' && l.peek(1) == '*':
			l.commentStart = l.spanOf(l.offset, 2)
			l.state = stateBlockComment
			l.offset += 2
		case isIdentStart(c):
			l.readIdentifier()
		case isDigit(c):
			if err := l.readNumber(); err != nil {
				return err
			}
		case c == '"':
			if err := l.readString(); err != nil {
				return err
			}
		case c == '#':
			l.emit(Token{Type: PUNCT, Value: "#"}, l.offset, 1)
			l.offset++
			l.readColorDigits()
		case c == '\'':
			return span.NewLiveError(l.spanOf(l.offset, 1), ErrDisallowedSyntax, "character and lifetime literals are not allowed")
		default:
			if !l.readPunct() {
				return span.NewLiveError(l.spanOf(l.offset, 1), ErrUnexpectedCharacter, "unexpected character %q", c)
			}
		}
	}

	return nil
}

func (l *lexer) skipBlockComment() {
	for l.offset < len(l.line) {
		if l.line[l.offset] == '*' && l.peek(1) == '/' {
			l.offset += 2
			l.state = stateCode

			return
		}
		l.offset++
	}
}

// readIdentifier reads identifiers and keywords
func (l *lexer) readIdentifier() {
	start := l.offset
	for l.offset < len(l.line) && isIdentPart(l.line[l.offset]) {
		l.offset++
	}

	word := norm.NFC.String(string(l.line[start:l.offset]))
	l.emit(Token{Type: IDENTIFIER, Value: word}, start, l.offset-start)
}

// readNumber reads numeric literals
func (l *lexer) readNumber() error {
	start := l.offset

	if l.line[l.offset] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') {
		l.offset += 2
		digits := l.offset
		for l.offset < len(l.line) && isHexDigit(l.line[l.offset]) {
			l.offset++
		}
		if l.offset == digits {
			return span.NewLiveError(l.spanOf(start, l.offset-start), ErrInvalidNumber, "hex literal without digits")
		}

		return l.finishNumber(start)
	}

	l.skipDigits()

	// Decimal point; "0." is allowed, "a..b" ranges and "1.x" member access are not numbers
	if l.current() == '.' && l.peek(1) != '.' && !isIdentStart(l.peek(1)) {
		l.offset++
		l.skipDigits()
	}

	// Exponential part
	if c := l.current(); c == 'e' || c == 'E' {
		l.offset++
		if c := l.current(); c == '+' || c == '-' {
			l.offset++
		}
		if !isDigit(l.current()) {
			return span.NewLiveError(l.spanOf(start, l.offset-start), ErrInvalidNumber, "exponent without digits")
		}
		l.skipDigits()
	}

	return l.finishNumber(start)
}

func (l *lexer) finishNumber(start int) error {
	c := l.current()
	if isIdentPart(c) || (c == '.' && isDigit(l.peek(1))) {
		end := l.offset
		for end < len(l.line) && (isIdentPart(l.line[end]) || l.line[end] == '.') {
			end++
		}

		return span.NewLiveError(l.spanOf(start, end-start), ErrInvalidNumber, "malformed number %q", string(l.line[start:end]))
	}

	l.emit(Token{Type: NUMBER, Value: string(l.line[start:l.offset])}, start, l.offset-start)

	return nil
}

// readString reads string literals. Escapes are kept verbatim in the string buffer.
func (l *lexer) readString() error {
	start := l.offset
	end := start + 1

	for end < len(l.line) && l.line[end] != '"' {
		if l.line[end] == '\\' {
			end++
		}
		end++
	}

	if end >= len(l.line) {
		return span.NewLiveError(l.spanOf(start, len(l.line)-start), ErrUnterminatedString, "string literal is not closed")
	}

	content := l.line[start+1 : end]
	token := Token{
		Type:  STRING,
		Index: uint32(len(l.strings)),
		Len:   uint32(len(content)),
	}
	l.strings = append(l.strings, content...)

	l.offset = end + 1
	l.emit(token, start, l.offset-start)

	return nil
}

// readColorDigits reads the hex digits of a color literal right after '#'
func (l *lexer) readColorDigits() {
	start := l.offset
	for l.offset < len(l.line) && isHexDigit(l.line[l.offset]) {
		l.offset++
	}

	if l.offset > start {
		l.emit(Token{Type: IDENTIFIER, Value: string(l.line[start:l.offset])}, start, l.offset-start)
	}
}

func (l *lexer) readPunct() bool {
	rest := l.line[l.offset:]
	for _, p := range multiPuncts {
		if len(rest) >= 2 && string(rest[:2]) == p {
			l.emit(Token{Type: PUNCT, Value: p}, l.offset, 2)
			l.offset += 2

			return true
		}
	}

	if strings.ContainsRune(singlePuncts, rest[0]) {
		l.emit(Token{Type: PUNCT, Value: string(rest[0])}, l.offset, 1)
		l.offset++

		return true
	}

	return false
}

func (l *lexer) emit(token Token, offset, length int) {
	l.tokens = append(l.tokens, TokenWithSpan{Span: l.spanOf(offset, length), Token: token})
}

func (l *lexer) spanOf(offset, length int) span.Span {
	col := l.pos.Column + uint32(offset)

	return span.Span{
		File:  l.file,
		Start: span.TextPos{Line: l.pos.Line, Column: col},
		End:   span.TextPos{Line: l.pos.Line, Column: col + uint32(length)},
	}
}

func (l *lexer) skipDigits() {
	for l.offset < len(l.line) && (isDigit(l.line[l.offset]) || l.line[l.offset] == '_') {
		l.offset++
	}
}

func (l *lexer) current() rune {
	return l.peek(0)
}

func (l *lexer) peek(n int) rune {
	if l.offset+n >= len(l.line) {
		return 0
	}

	return l.line[l.offset+n]
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isIdentPart(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
