package bptree

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("bptree: invalid configuration")
	// ErrCorruptTree signals a violated structural invariant, as detected by Check.
	ErrCorruptTree = errors.New("bptree: corrupt tree")
)
