package db

import "errors"

// Domain-level database error sentinels.
var (
	// Criterion state errors
	ErrCriterionNotFound = errors.New("criterion not found")
	ErrVersionConflict   = errors.New("criterion row was modified concurrently")

	// Content errors
	ErrContentNotFound = errors.New("content not found")
)
