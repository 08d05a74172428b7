package model

import "errors"

// Structural errors
var (
	// ErrInvalidOperation indicates a request that would break the tree's shape,
	// such as removing a node from a folder it is not in.
	ErrInvalidOperation = errors.New("invalid tree operation")

	// ErrCycle indicates a node would become its own ancestor.
	ErrCycle = errors.New("node cannot be moved into its own subtree")
)

// Lookup errors
var (
	// ErrStaleReference indicates an ID that does not name a live node.
	ErrStaleReference = errors.New("stale node reference")

	// ErrPathNotFound indicates a title path that matches no node.
	ErrPathNotFound = errors.New("path not found")
)
