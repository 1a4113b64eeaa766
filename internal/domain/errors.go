package domain

import "errors"

// Sentinel errors for the drive domain - use with errors.Is()
var (
	// ErrNotFound covers both genuinely missing entities and entities the
	// caller does not own. The two cases are indistinguishable on purpose:
	// an owner-scoped lookup miss must not disclose existence.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the request carried no valid identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is reserved for cases where existence is already known
	// to the caller. Owner-scoped lookups return ErrNotFound instead.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation indicates invalid input (empty name, bad parent id).
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a uniqueness violation (duplicate root,
	// duplicate external key).
	ErrConflict = errors.New("already exists")

	// ErrExternalStore indicates a blob-store call failed.
	ErrExternalStore = errors.New("external store failure")

	// ErrInconsistent indicates corrupted data: a folder's parent chain
	// references a row that no longer exists.
	ErrInconsistent = errors.New("inconsistent folder tree")

	// ErrCycleDetected indicates the ancestry walk exceeded its depth
	// bound, which can only happen if the parent graph has a cycle.
	ErrCycleDetected = errors.New("cycle detected in folder tree")
)
