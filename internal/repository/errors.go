package repository

import "errors"

var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidEntity = errors.New("invalid entity")
	ErrConflict      = errors.New("entity was modified concurrently")
)
