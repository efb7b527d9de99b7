package livenode

// TypeField describes one field of a registered type and the type it holds.
type TypeField struct {
	Name   string
	Type   TypeID
	Module ModuleID // module owning the field's type
}

// TypeInfo is externally supplied metadata for an object type.
type TypeInfo struct {
	Type   TypeID
	Module ModuleID
	Name   string
	Fields []TypeField
}

// TypeInfoByName finds the type metadata with the given name.
func TypeInfoByName(infos []TypeInfo, name string) (TypeInfo, bool) {
	for _, info := range infos {
		if info.Name == name {
			return info, true
		}
	}

	return TypeInfo{}, false
}
