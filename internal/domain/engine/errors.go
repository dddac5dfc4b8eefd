package engine

import "errors"

// Sentinel kinds for allocation validation failures. A command that returns
// one of these has made no ledger or store mutation and is safe to retry.
var (
	ErrCapacityExceeded     = errors.New("slot is full")
	ErrInsufficientCapacity = errors.New("target slot lacks capacity for the group")
	ErrEmptySource          = errors.New("source slot has no occupants")
	ErrUnknownSlot          = errors.New("unknown slot")
	ErrDateMismatch         = errors.New("target slot is not on the requested date")
)
