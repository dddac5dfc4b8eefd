package app

import "errors"

// Sentinel kinds for service-level failures.
var (
	// ErrNotStarted means a command arrived before Start loaded the tour.
	ErrNotStarted = errors.New("service not started")

	// ErrPersistenceFailure means a store primitive failed after validation
	// passed. The ledger has been resynchronized from the store; callers
	// must re-inspect the view before retrying.
	ErrPersistenceFailure = errors.New("persistence failed, state resynchronized")

	// ErrStaleState means a reload revealed edges changed outside the
	// aborted delta, i.e. a foreign writer touched the tour.
	ErrStaleState = errors.New("local state was stale relative to the store")

	// ErrImportUnsupported means the configured store cannot accept
	// roster writes.
	ErrImportUnsupported = errors.New("store does not support roster import")
)
