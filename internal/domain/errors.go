package domain

import "errors"

var (
	ErrModpackNotFound   = errors.New("modpack not found")
	ErrModNotFound       = errors.New("mod not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrModpackReadOnly   = errors.New("modpack is managed by a remote source and cannot be modified")
	ErrInvalidConversion = errors.New("invalid conversion request")
	ErrUnknownCatalog    = errors.New("catalog not registered")
	ErrAuthRequired      = errors.New("authentication required")
	ErrInvalidConfig     = errors.New("invalid configuration")
)
