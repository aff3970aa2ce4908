package errs

import "errors"

// Common sentinel errors for cross-layer signaling.
var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
	// ErrUnprocessable is used for semantic validation failures (HTTP 422)
	ErrUnprocessable = errors.New("unprocessable")

	// Transaction validation, checked in this order.
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrSameEndpoint    = errors.New("same source and destination")
	ErrUnsupportedKind = errors.New("unsupported transaction kind")
	ErrInvalidDate     = errors.New("invalid date")

	// ErrNameExists indicates another entity in the same collection already uses the name
	ErrNameExists = errors.New("name already exists")
	// ErrInUse indicates an entity is still referenced by transactions and cannot be deleted
	ErrInUse = errors.New("entity is referenced by transactions")
)
