package contracts

import "errors"

// Store errors shared by every driver
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
)
