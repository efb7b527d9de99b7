package parser

import "errors"

// Sentinel errors - Parser related
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of file")
	ErrInvalidVector   = errors.New("invalid vector literal")
	ErrInvalidLiteral  = errors.New("invalid literal")
	ErrInvalidUse      = errors.New("invalid use path")
	ErrInvalidStream   = errors.New("token stream must end with EOF")
)
