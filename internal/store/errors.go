package store

import "errors"

var (
	ErrStoreUnreachable   = errors.New("vector store unreachable")
	ErrCollectionConflict = errors.New("collection configuration conflict")
	ErrDimensionMismatch  = errors.New("embedding dimension mismatch")
	ErrDuplicateID        = errors.New("duplicate record id in batch")
)
