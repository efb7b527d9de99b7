package inspect

// Entry kinds
const (
	KindBool   = "bool"
	KindInt    = "int"
	KindFloat  = "float"
	KindVec2   = "vec2"
	KindVec3   = "vec3"
	KindVec4   = "vec4"
	KindColor  = "color"
	KindString = "string"
	KindRef    = "ref"
	KindUse    = "use"
	KindObject = "object"
)

// Entry is one node of an inspected document, the serializable output model.
type Entry struct {
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Kind     string  `json:"kind" yaml:"kind"`
	Value    string  `json:"value,omitempty" yaml:"value,omitempty"`   // scalar text, imported module or class/type name
	Target   string  `json:"target,omitempty" yaml:"target,omitempty"` // "file:index" of a resolved reference or class parent
	Children []Entry `json:"children,omitempty" yaml:"children,omitempty"`
}

// Find returns the child with the given name.
func (e Entry) Find(name string) (Entry, bool) {
	for _, child := range e.Children {
		if child.Name == name {
			return child, true
		}
	}

	return Entry{}, false
}
