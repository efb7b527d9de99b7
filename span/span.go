// Package span provides source positions, spans and positional errors shared by the live compiler.
package span

import "fmt"

// FileID is the dense index of a registered file. Zero is the reserved empty slot.
type FileID uint32

// NoFile is the sentinel file id.
const NoFile FileID = 0

// ToIndex returns the slice index of the file.
func (f FileID) ToIndex() int { return int(f) }

// IsValid reports whether the id addresses a real file.
func (f FileID) IsValid() bool { return f != NoFile }

// FileIDFromIndex converts a slice index to a FileID.
func FileIDFromIndex(index int) FileID { return FileID(index) }

// TextPos represents a zero-based position in the source code
type TextPos struct {
	Line   uint32 `json:"line" yaml:"line"`
	Column uint32 `json:"column" yaml:"column"`
}

func (p TextPos) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Span represents the range [Start, End) within one file.
type Span struct {
	File  FileID  `json:"file" yaml:"file"`
	Start TextPos `json:"start" yaml:"start"`
	End   TextPos `json:"end" yaml:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// TokenID identifies a token in the token stream of a file.
type TokenID struct {
	File  FileID
	Index int
}

// NewTokenID creates a TokenID
func NewTokenID(file FileID, index int) TokenID {
	return TokenID{File: file, Index: index}
}
