package main

import "errors"

// Sentinel errors for command operations
var (
	ErrCheckFailed   = errors.New("live sources have errors")
	ErrUnknownModule = errors.New("unknown module")
	ErrUnknownName   = errors.New("name is not defined in module")
)
