package livenode

import (
	"github.com/shibukawa/snaplive/span"
	"github.com/shibukawa/snaplive/tokenizer"
)

// Document owns the node array of one file together with its string buffer and token stream.
type Document struct {
	Nodes   Nodes
	Strings []rune
	Tokens  []tokenizer.TokenWithSpan
	Stale   bool // the expanded form must be rebuilt
}

// NewDocument creates an empty document that is marked stale.
func NewDocument() *Document {
	return &Document{Stale: true}
}

// RestartFrom clears the nodes and takes over the string buffer and tokens of in,
// reusing the node storage.
func (d *Document) RestartFrom(in *Document) {
	d.Nodes = d.Nodes[:0]
	d.Strings = append(d.Strings[:0], in.Strings...)
	d.Tokens = in.Tokens
}

// Root returns the index of the document root, or false for an empty document.
func (d *Document) Root() (int, bool) {
	if len(d.Nodes) == 0 {
		return 0, false
	}

	return 0, true
}

// StringOf returns the content of a string value.
func (d *Document) StringOf(s Str) string {
	end := s.Index + s.Len
	if int(end) > len(d.Strings) {
		return ""
	}

	return string(d.Strings[s.Index:end])
}

// AppendString stores text in the string buffer and returns its reference.
func (d *Document) AppendString(text []rune) Str {
	s := Str{Index: uint32(len(d.Strings)), Len: uint32(len(text))}
	d.Strings = append(d.Strings, text...)

	return s
}

// TokenIDToSpan returns the span of a token of this document.
func (d *Document) TokenIDToSpan(id span.TokenID) span.Span {
	if id.Index < 0 || id.Index >= len(d.Tokens) {
		return span.Span{File: id.File}
	}

	return d.Tokens[id.Index].Span
}

// NodeSpan returns the span of the token a node was parsed from.
func (d *Document) NodeSpan(index int) span.Span {
	return d.TokenIDToSpan(d.Nodes[index].Origin.Token)
}
