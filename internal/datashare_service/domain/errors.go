package domain

import "errors"

var (
	// ErrUnknownURI indicates a URI that names no registered table.
	ErrUnknownURI = errors.New("unknown datashare uri")
	// ErrUnknownColumn indicates a column outside the table's column set.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrEmptyValues indicates an insert or update without any values.
	ErrEmptyValues = errors.New("values bucket is empty")
	// ErrInvalidPredicate indicates predicates that cannot be compiled.
	ErrInvalidPredicate = errors.New("invalid predicates")
)
