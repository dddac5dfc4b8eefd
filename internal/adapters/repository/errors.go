package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrEdgeExists  = errors.New("edge already exists")
	ErrEdgeMissing = errors.New("edge not found")
	ErrClosed      = errors.New("store closed")
)
