package parser

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/snaplive/tokenizer"
)

// lexeme is the value carried through the combinators: a token and its index in the stream
type lexeme struct {
	index int
	token tokenizer.Token
}

var (
	identifier = primitiveType(tokenizer.IDENTIFIER)
	number     = primitiveType(tokenizer.NUMBER)

	colon      = punct(":")
	pathSep    = punct("::")
	asterisk   = punct("*")
	semicolon  = punct(";")
	comma      = punct(",")
	minus      = punct("-")
	hash       = punct("#")
	braceOpen  = punct("{")
	parenOpen  = punct("(")
	parenClose = punct(")")

	useKeyword    = keyword("use")
	vectorKeyword = keyword("vec2", "vec3", "vec4")

	signedNumber = pc.Seq(pc.Optional(minus), number)
)

var (
	// use a::b::Name; / use a::b::*;
	useStatement = pc.Seq(
		useKeyword,
		identifier,
		pc.ZeroOrMore("module path", pc.Seq(pathSep, pc.Or(identifier, asterisk))),
		pc.Optional(semicolon),
	)

	// name:
	propertyHead = pc.Seq(identifier, colon)

	// Parent { / {
	objectOpen = pc.Seq(pc.Optional(identifier), braceOpen)

	// #rrggbb
	colorLiteral = pc.Seq(hash, identifier)

	// vec3(1, -2, 3.5)
	vectorLiteral = pc.Seq(
		vectorKeyword,
		parenOpen,
		signedNumber,
		pc.ZeroOrMore("vector components", pc.Seq(comma, signedNumber)),
		pc.Optional(comma),
		parenClose,
	)
)

func primitiveType(types ...tokenizer.TokenType) pc.Parser[lexeme] {
	return func(pctx *pc.ParseContext[lexeme], tokens []pc.Token[lexeme]) (int, []pc.Token[lexeme], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.token.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func punct(value string) pc.Parser[lexeme] {
	return func(pctx *pc.ParseContext[lexeme], tokens []pc.Token[lexeme]) (int, []pc.Token[lexeme], error) {
		if len(tokens) > 0 && tokens[0].Val.token.IsPunct(value) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func keyword(words ...string) pc.Parser[lexeme] {
	return func(pctx *pc.ParseContext[lexeme], tokens []pc.Token[lexeme]) (int, []pc.Token[lexeme], error) {
		if len(tokens) > 0 && tokens[0].Val.token.Type == tokenizer.IDENTIFIER &&
			slices.Contains(words, tokens[0].Val.token.Value) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func toParserTokens(tokens []tokenizer.TokenWithSpan) []pc.Token[lexeme] {
	results := make([]pc.Token[lexeme], len(tokens))

	for i, token := range tokens {
		results[i] = pc.Token[lexeme]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  int(token.Span.Start.Line),
				Col:   int(token.Span.Start.Column),
				Index: i,
			},
			Val: lexeme{index: i, token: token.Token},
			Raw: token.Token.Value,
		}
	}

	return results
}
