package livenode

import "fmt"

// Value is the closed set of node payloads. Consumers switch on the concrete type.
type Value interface {
	isValue()
	String() string
}

type (
	// Bool is a boolean scalar
	Bool bool
	// Int is an integer scalar
	Int int64
	// Float is a floating point scalar
	Float float64
	// Vec2 is a two component vector
	Vec2 [2]float64
	// Vec3 is a three component vector
	Vec3 [3]float64
	// Vec4 is a four component vector
	Vec4 [4]float64
	// Color is a packed 0xRRGGBBAA color
	Color uint32

	// Str references a rune range in the document's string buffer.
	Str struct {
		Index uint32
		Len   uint32
	}

	// IDRef is a free name used as a value. Target is filled in by expansion.
	IDRef struct {
		Name   string
		Target Pointer
	}

	// Use imports the node's name from Module; an empty node name imports every top-level name.
	Use struct {
		Module ModuleID
	}

	// Object opens a nested scope whose children follow it up to the matching Close.
	Object struct {
		Type       TypeID   // set when the object instantiates registered type metadata
		ParentName string   // class this object inherits from, as written in the source
		Parent     *Pointer // resolved class parent, filled in by expansion
	}

	// Close ends the innermost open Object.
	Close struct{}
)

func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (Vec2) isValue()   {}
func (Vec3) isValue()   {}
func (Vec4) isValue()   {}
func (Color) isValue()  {}
func (Str) isValue()    {}
func (IDRef) isValue()  {}
func (Use) isValue()    {}
func (Object) isValue() {}
func (Close) isValue()  {}

func (v Bool) String() string  { return fmt.Sprintf("%t", bool(v)) }
func (v Int) String() string   { return fmt.Sprintf("%d", int64(v)) }
func (v Float) String() string { return fmt.Sprintf("%g", float64(v)) }
func (v Vec2) String() string  { return fmt.Sprintf("vec2(%g, %g)", v[0], v[1]) }
func (v Vec3) String() string  { return fmt.Sprintf("vec3(%g, %g, %g)", v[0], v[1], v[2]) }
func (v Vec4) String() string {
	return fmt.Sprintf("vec4(%g, %g, %g, %g)", v[0], v[1], v[2], v[3])
}
func (v Color) String() string { return fmt.Sprintf("#%08x", uint32(v)) }
func (v Str) String() string   { return fmt.Sprintf("str[%d:%d]", v.Index, v.Len) }

func (v IDRef) String() string {
	if v.Target.IsZero() {
		return v.Name
	}

	return fmt.Sprintf("%s -> %s", v.Name, v.Target)
}

func (v Use) String() string { return "use " + string(v.Module) }

func (v Object) String() string {
	switch {
	case v.Parent != nil:
		return fmt.Sprintf("object(%s -> %s)", v.ParentName, *v.Parent)
	case v.ParentName != "":
		return fmt.Sprintf("object(%s)", v.ParentName)
	case !v.Type.IsZero():
		return fmt.Sprintf("object(type %s)", v.Type)
	default:
		return "object"
	}
}

func (Close) String() string { return "close" }

// IsObject reports whether v opens a scope.
func IsObject(v Value) bool {
	_, ok := v.(Object)
	return ok
}

// IsClose reports whether v closes a scope.
func IsClose(v Value) bool {
	_, ok := v.(Close)
	return ok
}
