package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/span"
	"github.com/shibukawa/snaplive/tokenizer"
)

func register(t *testing.T, r *Registry, fileName string, module livenode.ModuleID, source string, types ...livenode.TypeInfo) span.FileID {
	t.Helper()

	id, err := r.Register(fileName, module, source, types, span.TextPos{})
	require.NoError(t, err)

	return id
}

func expand(t *testing.T, r *Registry) []span.LiveError {
	t.Helper()

	var errs []span.LiveError
	r.ExpandAll(&errs)

	return errs
}

func TestUseResolvesAcrossFiles(t *testing.T) {
	r := New()

	a := register(t, r, "a.live", "mod_a", "use mod_b::Foo;\nx: Foo")
	require.Equal(t, []livenode.ModuleID{"mod_b", "mod_a"}, r.DepOrder())

	b := register(t, r, "b.live", "mod_b", "Foo: { size: 1 }")
	require.Equal(t, []livenode.ModuleID{"mod_b", "mod_a"}, r.DepOrder())
	require.Equal(t, []livenode.ModuleID{"mod_b"}, r.Dependencies("mod_a"))

	require.Empty(t, expand(t, r))

	foo := livenode.Pointer{File: b, Index: 1}

	docA, ok := r.FileIDToDoc(a)
	require.True(t, ok)
	require.False(t, docA.Stale)

	ref, ok := docA.Nodes[2].Value.(livenode.IDRef)
	require.True(t, ok)
	require.Equal(t, foo, ref.Target)

	target, ok := r.FindScopeTargetViaStart("Foo", 0, docA.Nodes)
	require.True(t, ok)
	require.Equal(t, ScopeRemote, target.Kind)
	require.Equal(t, foo, target.Ptr)

	// the raw x node still finds Foo through its provenance
	raw, ok := r.TokenIDToOriginDoc(docA.Nodes[2].Origin.Token)
	require.True(t, ok)

	ptr, ok := r.FindScopePtrViaOrigin(raw.Nodes[2].Origin, "Foo")
	require.True(t, ok)
	require.Equal(t, foo, ptr)

	node, ok := r.PtrToNode(ptr)
	require.True(t, ok)
	require.Equal(t, "Foo", node.ID)
}

func TestRemovedUseDropsEdge(t *testing.T) {
	r := New()

	a := register(t, r, "a.live", "mod_a", "use mod_b::Foo;\nx: Foo")
	b := register(t, r, "b.live", "mod_b", "Foo: { size: 1 }")
	require.Empty(t, expand(t, r))

	register(t, r, "a.live", "mod_a", "x: 1")

	require.Empty(t, r.Dependencies("mod_a"))
	require.True(t, r.IsStale(a))
	require.False(t, r.IsStale(b))

	require.Empty(t, expand(t, r))
	require.False(t, r.IsStale(a))
}

func TestIdenticalRegistrationIsNoop(t *testing.T) {
	r := New()

	register(t, r, "b.live", "mod_b", "Foo: { size: 1 }")
	a := register(t, r, "a.live", "mod_a", "use mod_b::Foo;\nx: Foo")
	require.Empty(t, expand(t, r))

	order := r.DepOrder()
	deps := r.Dependencies("mod_a")
	before, _ := r.FileIDToDoc(a)

	again := register(t, r, "a.live", "mod_a", "use mod_b::Foo;\nx: Foo")
	require.Equal(t, a, again)
	require.Equal(t, order, r.DepOrder())
	require.Equal(t, deps, r.Dependencies("mod_a"))

	for id := range r.Files() {
		require.False(t, r.IsStale(id))
	}

	after, _ := r.FileIDToDoc(a)
	require.Same(t, before, after)
}

func TestEditMarksTransitiveDependentsStale(t *testing.T) {
	r := New()

	a := register(t, r, "a.live", "mod_a", "Base: { v: 1 }")
	b := register(t, r, "b.live", "mod_b", "use mod_a::Base\nMid: { b: Base }")
	c := register(t, r, "c.live", "mod_c", "use mod_b::Mid\nTop: { m: Mid }")
	d := register(t, r, "d.live", "mod_d", "Other: { v: 2 }")
	require.Empty(t, expand(t, r))

	register(t, r, "a.live", "mod_a", "Base: { v: 2 }")

	require.True(t, r.IsStale(a))
	require.True(t, r.IsStale(b))
	require.True(t, r.IsStale(c))
	require.False(t, r.IsStale(d))
}

func TestWildcardImportsFollowSourceOrder(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{name: "first", source: "use one::*\nuse two::*\ny: x", expected: "one.live"},
		{name: "swapped", source: "use two::*\nuse one::*\ny: x", expected: "two.live"},
		{name: "local wins", source: "use two::*\nx: 0\ny: x", expected: "main.live"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			register(t, r, "one.live", "one", "x: 1")
			register(t, r, "two.live", "two", "x: 2")
			main := register(t, r, "main.live", "main", tt.source)
			require.Empty(t, expand(t, r))

			doc, _ := r.FileIDToDoc(main)
			index, ok := doc.Nodes.ChildByName(0, "y")
			require.True(t, ok)

			ref := doc.Nodes[index].Value.(livenode.IDRef)
			require.Equal(t, tt.expected, r.FileIDToFileName(ref.Target.File))
		})
	}
}

func TestClassParentInOtherFile(t *testing.T) {
	r := New()

	lib := register(t, r, "lib.live", "lib", "Base: { color: #fff, width: 10 }")
	app := register(t, r, "app.live", "app", "use lib::Base\nButton: Base { label: \"ok\", w: width }")
	require.Empty(t, expand(t, r))

	doc, _ := r.FileIDToDoc(app)
	button, ok := doc.Nodes.ChildByName(0, "Button")
	require.True(t, ok)

	object := doc.Nodes[button].Value.(livenode.Object)
	require.NotNil(t, object.Parent)
	require.Equal(t, livenode.Pointer{File: lib, Index: 1}, *object.Parent)

	// the inherited field is not copied but reachable through the parent
	_, ok = doc.Nodes.ChildByName(button, "width")
	require.False(t, ok)

	width, ok := r.FindScopeItemViaClassParent(livenode.Pointer{File: app, Index: uint32(button)}, "width")
	require.True(t, ok)
	require.Equal(t, livenode.Pointer{File: lib, Index: 3}, width)

	label, ok := r.FindScopeItemViaClassParent(livenode.Pointer{File: app, Index: uint32(button)}, "label")
	require.True(t, ok)
	require.Equal(t, app, label.File)

	_, ok = r.FindScopeItemViaClassParent(livenode.Pointer{File: app, Index: uint32(button)}, "height")
	require.False(t, ok)

	w, ok := doc.Nodes.ChildByName(button, "w")
	require.True(t, ok)
	require.Equal(t, livenode.Pointer{File: lib, Index: 3}, doc.Nodes[w].Value.(livenode.IDRef).Target)
}

func TestCycleIsRejected(t *testing.T) {
	r := New()

	register(t, r, "a.live", "mod_a", "use mod_b::*")
	order := r.DepOrder()

	_, err := r.Register("b.live", "mod_b", "x: 1\nuse mod_a::*", nil, span.TextPos{})
	require.ErrorIs(t, err, ErrDependencyCycle)

	var fileErr *span.FileError
	require.True(t, errors.As(err, &fileErr))
	require.Equal(t, "b.live", fileErr.FileName)
	require.Equal(t, span.TextPos{Line: 1, Column: 11}, fileErr.Span.Start)
	require.Contains(t, fileErr.Message, "mod_b -> mod_a -> mod_b")

	_, ok := r.PathToFileID("b.live")
	require.False(t, ok)
	require.Equal(t, order, r.DepOrder())
	require.Empty(t, r.Dependencies("mod_b"))
}

func TestLexicalErrorLeavesFileUntouched(t *testing.T) {
	r := New()

	a := register(t, r, "a.live", "mod_a", "x: 1")
	require.Empty(t, expand(t, r))

	_, err := r.Register("a.live", "mod_a", "x: 'c'", nil, span.TextPos{Line: 4})
	require.ErrorIs(t, err, tokenizer.ErrDisallowedSyntax)

	var fileErr *span.FileError
	require.True(t, errors.As(err, &fileErr))
	require.Equal(t, "a.live", fileErr.FileName)
	require.Equal(t, span.TextPos{Line: 4, Column: 3}, fileErr.Span.Start)
	require.True(t, strings.HasPrefix(fileErr.Error(), "a.live:5:4: "))

	file, ok := r.File(a)
	require.True(t, ok)
	require.Equal(t, "x: 1", file.Source)
	require.False(t, r.IsStale(a))

	_, err = r.Register("b.live", "mod_b", "x: {", nil, span.TextPos{})
	require.Error(t, err)

	_, ok = r.PathToFileID("b.live")
	require.False(t, ok)
	require.Equal(t, []livenode.ModuleID{"mod_a"}, r.DepOrder())
}

func TestTypeConflictPanics(t *testing.T) {
	r := New()

	id := livenode.NewTypeID("lib", "View")
	register(t, r, "a.live", "lib", "v: View {}", livenode.TypeInfo{Type: id, Module: "lib", Name: "View"})

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		err, ok := recovered.(error)
		require.True(t, ok)
		require.ErrorIs(t, err, ErrTypeConflict)
	}()

	_, _ = r.Register("b.live", "other", "x: 1", []livenode.TypeInfo{{Type: id, Module: "other", Name: "View"}}, span.TextPos{})
	t.Fatal("type conflict did not panic")
}

func TestFileIDZeroIsReserved(t *testing.T) {
	r := New()

	id := register(t, r, "a.live", "mod_a", "x: 1")
	require.Equal(t, span.FileID(1), id)

	require.Equal(t, "", r.FileIDToFileName(span.NoFile))
	require.False(t, r.IsStale(span.NoFile))

	_, ok := r.FileIDToDoc(span.NoFile)
	require.False(t, ok)

	_, ok = r.PtrToNode(livenode.Pointer{})
	require.False(t, ok)

	_, ok = r.PtrToNode(livenode.Pointer{File: id, Index: 100})
	require.False(t, ok)
}
