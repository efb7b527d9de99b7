package loader

import "errors"

// Sentinel errors
var (
	ErrNotDirectory     = errors.New("input path is not a directory")
	ErrInvalidTypeFile  = errors.New("invalid type metadata")
	ErrDuplicateType    = errors.New("duplicate type")
	ErrUnknownFieldType = errors.New("unknown field type")
	ErrReadSource       = errors.New("failed to read source")
)
