package tokenizer

import (
	"errors"
	"fmt"

	"github.com/shibukawa/snaplive/span"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrInvalidNumber       = errors.New("invalid number format")
	ErrDisallowedSyntax    = errors.New("disallowed syntax")
)

// TokenType represents the type of a token
type TokenType int

const (
	EOF        TokenType = iota
	IDENTIFIER           // identifiers, keywords and color hex digits
	NUMBER               // numeric literals
	PUNCT                // punctuation and operators
	STRING               // string literal, content lives in the string buffer
	UNKNOWN              // never produced by a successful Tokenize
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case IDENTIFIER:
		return "IDENTIFIER"
	case NUMBER:
		return "NUMBER"
	case PUNCT:
		return "PUNCT"
	case STRING:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// Token represents a token
type Token struct {
	Type  TokenType
	Value string // identifier, punctuation or number text; empty for STRING and EOF

	// STRING only: rune range inside the string buffer
	Index uint32
	Len   uint32
}

// IsPunct reports whether the token is the given punctuation.
func (t Token) IsPunct(p string) bool {
	return t.Type == PUNCT && t.Value == p
}

// IsIdent reports whether the token is the given identifier.
func (t Token) IsIdent(name string) bool {
	return t.Type == IDENTIFIER && t.Value == name
}

// String returns the string representation of Token
func (t Token) String() string {
	switch t.Type {
	case STRING:
		return fmt.Sprintf("STRING: [%d:%d]", t.Index, t.Len)
	case EOF:
		return "EOF"
	default:
		return t.Type.String() + ": " + t.Value
	}
}

// TokenWithSpan is a token together with its source range.
type TokenWithSpan struct {
	Span  span.Span
	Token Token
}
