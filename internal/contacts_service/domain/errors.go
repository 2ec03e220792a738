package domain

import "errors"

var (
	// ErrNotFound indicates that the requested contact does not exist.
	ErrNotFound = errors.New("contact not found")
	// ErrDuplicateKey indicates a contact key collision.
	ErrDuplicateKey = errors.New("duplicate contact key")
)
