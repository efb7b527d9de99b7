package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/shibukawa/snaplive/livenode"
)

// typeFile is the YAML layout of the type metadata file:
//
//	types:
//	  - module: lib::style
//	    name: Theme
//	    id: 2f0c...        # optional, derived from module and name
//	    fields:
//	      - name: color
//	        type: Color    # name, module::Name or id
type typeFile struct {
	Types []typeEntry `yaml:"types"`
}

type typeEntry struct {
	Module string       `yaml:"module"`
	Name   string       `yaml:"name"`
	ID     string       `yaml:"id"`
	Fields []fieldEntry `yaml:"fields"`
}

type fieldEntry struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Module string `yaml:"module"` // required when type is an id that is not listed
}

// LoadTypes reads type metadata from a YAML file.
func LoadTypes(path string) ([]livenode.TypeInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read type file: %w", err)
	}

	return ParseTypes(data)
}

// ParseTypes decodes type metadata. Field types are resolved against the listed
// types by name, by module::Name or by id.
func ParseTypes(data []byte) ([]livenode.TypeInfo, error) {
	var file typeFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTypeFile, err)
	}

	infos := make([]livenode.TypeInfo, 0, len(file.Types))
	seen := make(map[livenode.TypeID]livenode.ModuleID, len(file.Types))

	for i, entry := range file.Types {
		if entry.Module == "" || entry.Name == "" {
			return nil, fmt.Errorf("%w: type #%d needs a module and a name", ErrInvalidTypeFile, i+1)
		}

		module := livenode.ModuleID(entry.Module)

		id := livenode.NewTypeID(module, entry.Name)
		if entry.ID != "" {
			parsed, err := livenode.ParseTypeID(entry.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidTypeFile, err)
			}

			id = parsed
		}

		if owner, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s is listed by %s and %s", ErrDuplicateType, id, owner, module)
		}

		seen[id] = module

		infos = append(infos, livenode.TypeInfo{Type: id, Module: module, Name: entry.Name})
	}

	for i, entry := range file.Types {
		for _, field := range entry.Fields {
			resolved, err := resolveFieldType(infos, field)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", entry.Name, field.Name, err)
			}

			infos[i].Fields = append(infos[i].Fields, resolved)
		}
	}

	return infos, nil
}

func resolveFieldType(infos []livenode.TypeInfo, field fieldEntry) (livenode.TypeField, error) {
	result := livenode.TypeField{Name: field.Name}

	if field.Name == "" || field.Type == "" {
		return result, fmt.Errorf("%w: fields need a name and a type", ErrInvalidTypeFile)
	}

	if id, err := livenode.ParseTypeID(field.Type); err == nil {
		result.Type = id

		for _, info := range infos {
			if info.Type == id {
				result.Module = info.Module
				return result, nil
			}
		}

		if field.Module == "" {
			return result, fmt.Errorf("%w: %s is not listed and has no module", ErrUnknownFieldType, field.Type)
		}

		result.Module = livenode.ModuleID(field.Module)

		return result, nil
	}

	module, name := splitQualifiedName(field.Type)
	if field.Module != "" {
		module = livenode.ModuleID(field.Module)
	}

	var candidates []livenode.TypeInfo

	for _, info := range infos {
		if info.Name == name && (module == "" || info.Module == module) {
			candidates = append(candidates, info)
		}
	}

	switch len(candidates) {
	case 1:
		result.Type = candidates[0].Type
		result.Module = candidates[0].Module

		return result, nil
	case 0:
		if module == "" {
			return result, fmt.Errorf("%w: %s", ErrUnknownFieldType, field.Type)
		}

		// a type of another crate: identity is derived like any listed type
		result.Type = livenode.NewTypeID(module, name)
		result.Module = module

		return result, nil
	default:
		return result, fmt.Errorf("%w: %s is ambiguous, qualify it with its module", ErrUnknownFieldType, field.Type)
	}
}

// splitQualifiedName splits "a::b::Name" into "a::b" and "Name".
func splitQualifiedName(qualified string) (livenode.ModuleID, string) {
	index := strings.LastIndex(qualified, livenode.PathSeparator)
	if index < 0 {
		return "", qualified
	}

	return livenode.ModuleID(qualified[:index]), qualified[index+len(livenode.PathSeparator):]
}
