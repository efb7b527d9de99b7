// Package livenode holds the flat node arena that represents raw and expanded live documents.
package livenode

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/shibukawa/snaplive/span"
)

// ModuleID identifies a logical compilation unit, e.g. "app::widgets".
type ModuleID string

// SelfModule is the path head that refers to the module of the file being compiled.
const SelfModule = "crate"

// PathSeparator separates module path segments.
const PathSeparator = "::"

// ModuleFromPath joins path segments into a ModuleID.
func ModuleFromPath(segments ...string) ModuleID {
	return ModuleID(strings.Join(segments, PathSeparator))
}

// Crate returns the first path segment.
func (m ModuleID) Crate() string {
	head, _, _ := strings.Cut(string(m), PathSeparator)
	return head
}

// IsSelf reports whether the module path starts with the self-module keyword.
func (m ModuleID) IsSelf() bool {
	return m.Crate() == SelfModule
}

// Resolve replaces a leading self-module keyword with own.
// "crate" becomes own, "crate::x" becomes "<crate of own>::x".
func (m ModuleID) Resolve(own ModuleID) ModuleID {
	if !m.IsSelf() {
		return m
	}

	_, rest, found := strings.Cut(string(m), PathSeparator)
	if !found {
		return own
	}

	return ModuleFromPath(own.Crate(), rest)
}

// TypeID is the opaque identity of a registered object type.
type TypeID uuid.UUID

// NoType is the zero TypeID.
var NoType TypeID

// ParseTypeID parses the textual UUID form of a TypeID.
func ParseTypeID(s string) (TypeID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NoType, fmt.Errorf("invalid type id %q: %w", s, err)
	}

	return TypeID(id), nil
}

// NewTypeID derives a stable TypeID from a module and a type name.
func NewTypeID(module ModuleID, name string) TypeID {
	return TypeID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(module)+PathSeparator+name)))
}

func (t TypeID) String() string {
	return uuid.UUID(t).String()
}

// IsZero reports whether no type is set.
func (t TypeID) IsZero() bool {
	return t == NoType
}

// Pointer addresses a node in the expanded document of a file.
type Pointer struct {
	File  span.FileID
	Index uint32
}

// IsZero reports whether the pointer addresses nothing.
func (p Pointer) IsZero() bool {
	return !p.File.IsValid()
}

func (p Pointer) String() string {
	return fmt.Sprintf("%d:%d", p.File, p.Index)
}

// Origin records where a node came from: the token it was parsed from and its index in the raw document.
type Origin struct {
	Token span.TokenID
	Node  int
}

// File returns the file the node was parsed from.
func (o Origin) File() span.FileID {
	return o.Token.File
}
