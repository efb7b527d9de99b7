package inspect

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"gopkg.in/yaml.v3"

	"github.com/shibukawa/snaplive/livenode"
	"github.com/shibukawa/snaplive/registry"
	"github.com/shibukawa/snaplive/span"
	"github.com/shibukawa/snaplive/testhelper"
)

func setup(t *testing.T) (*registry.Registry, span.FileID) {
	t.Helper()

	reg := registry.New()

	_, err := reg.Register("lib.live", "lib", "Primary: #f00", nil, span.TextPos{})
	assert.NoError(t, err)

	src := testhelper.TrimIndent(t, `
		use lib::Primary
		Base: { w: 1 }
		Button: Base { color: Primary, label: "ok", size: vec2(1, 2) }
	`)

	app, err := reg.Register("app.live", "app", src, nil, span.TextPos{})
	assert.NoError(t, err)

	var errs []span.LiveError
	reg.ExpandAll(&errs)
	assert.Equal(t, 0, len(errs))

	return reg, app
}

func TestTree(t *testing.T) {
	reg, app := setup(t)

	tree, err := Tree(reg, app)
	assert.NoError(t, err)

	assert.Equal(t, Entry{
		Kind: KindObject,
		Children: []Entry{
			{Name: "Primary", Kind: KindUse, Value: "lib"},
			{Name: "Base", Kind: KindObject, Children: []Entry{
				{Name: "w", Kind: KindInt, Value: "1"},
			}},
			{Name: "Button", Kind: KindObject, Value: "Base", Target: "app.live:2", Children: []Entry{
				{Name: "w", Kind: KindInt, Value: "1"},
				{Name: "color", Kind: KindRef, Value: "Primary", Target: "lib.live:1"},
				{Name: "label", Kind: KindString, Value: "ok"},
				{Name: "size", Kind: KindVec2, Value: "vec2(1, 2)"},
			}},
		},
	}, tree)

	button, ok := tree.Find("Button")
	assert.True(t, ok)

	ptr, ok := reg.ModuleAndNameToPtr("app", "Button")
	assert.True(t, ok)

	subtree, err := Subtree(reg, ptr)
	assert.NoError(t, err)
	assert.Equal(t, button, subtree)
}

func TestTreeErrors(t *testing.T) {
	reg := registry.New()

	_, err := Tree(reg, span.FileID(9))
	assert.IsError(t, err, ErrUnknownFile)

	id, err := reg.Register("a.live", "a", "x: 1", nil, span.TextPos{})
	assert.NoError(t, err)

	_, err = Tree(reg, id)
	assert.IsError(t, err, ErrNotExpanded)

	var errs []span.LiveError
	reg.ExpandAll(&errs)

	_, err = Subtree(reg, livenode.Pointer{File: id, Index: 42})
	assert.IsError(t, err, ErrInvalidPoint)
}

func TestTypedObjectShowsTypeName(t *testing.T) {
	reg := registry.New()

	panel := livenode.TypeInfo{
		Type:   livenode.NewTypeID("lib::ui", "Panel"),
		Module: "lib::ui",
		Name:   "Panel",
	}

	id, err := reg.Register("a.live", "app", "p: Panel { }\nall: { }", []livenode.TypeInfo{panel}, span.TextPos{})
	assert.NoError(t, err)

	var errs []span.LiveError
	reg.ExpandAll(&errs)

	tree, err := Tree(reg, id)
	assert.NoError(t, err)

	p, _ := tree.Find("p")
	assert.Equal(t, "lib::ui::Panel", p.Value)
	assert.Equal(t, 0, len(p.Children))

	all, _ := tree.Find("all")
	assert.Equal(t, "", all.Value)
}

func TestWildcardUse(t *testing.T) {
	reg := registry.New()

	_, err := reg.Register("lib.live", "lib", "x: 1", nil, span.TextPos{})
	assert.NoError(t, err)

	id, err := reg.Register("a.live", "app", "use lib::*\ny: x", nil, span.TextPos{})
	assert.NoError(t, err)

	var errs []span.LiveError
	reg.ExpandAll(&errs)

	tree, err := Tree(reg, id)
	assert.NoError(t, err)
	assert.Equal(t, Entry{Kind: KindUse, Value: "lib::*"}, tree.Children[0])
	assert.Equal(t, "lib.live:1", tree.Children[1].Target)
}

func TestToJSON(t *testing.T) {
	reg, app := setup(t)

	tree, err := Tree(reg, app)
	assert.NoError(t, err)

	base, _ := tree.Find("Base")

	out, err := ToJSON(base, false)
	assert.NoError(t, err)
	assert.Equal(t, `{"name":"Base","kind":"object","children":[{"name":"w","kind":"int","value":"1"}]}`, string(out))

	pretty, err := ToJSON(base, true)
	assert.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"kind\": \"object\",\n")
}

func TestToYAML(t *testing.T) {
	reg, app := setup(t)

	tree, err := Tree(reg, app)
	assert.NoError(t, err)

	out, err := ToYAML(tree)
	assert.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, `{name: w, kind: int, value: "1"}`)
	assert.Contains(t, text, "name: Button\n")
	assert.False(t, strings.HasPrefix(text, "name:"))

	var decoded Entry
	assert.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, tree, decoded)
}

func TestEntriesCSV(t *testing.T) {
	reg, app := setup(t)

	tree, err := Tree(reg, app)
	assert.NoError(t, err)

	out, err := EntriesCSV(tree, true)
	assert.NoError(t, err)

	assert.Equal(t, testhelper.TrimIndent(t, `
		path,kind,value,target
		Primary,use,lib,
		Base,object,,
		Base.w,int,1,
		Button,object,Base,app.live:2
		Button.w,int,1,
		Button.color,ref,Primary,lib.live:1
		Button.label,string,ok,
		Button.size,vec2,"vec2(1, 2)",
		`), string(out))
}
