package database

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error returned by a Store wraps exactly one of these,
// so callers branch with errors.Is rather than on message text.
var (
	// ErrStorageUnavailable means the persistent store could not be opened.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrDuplicateKey means a uniqueness constraint (url, report_date) was violated.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrReferential means a link referenced a missing article or report.
	ErrReferential = errors.New("referential integrity violation")
	// ErrMalformedInput means a required field was absent.
	ErrMalformedInput = errors.New("malformed input")
	// ErrStorage covers every other failure of the underlying store.
	ErrStorage = errors.New("storage error")
)

// wrap attaches the taxonomy sentinel and the driver cause to an operation.
func wrap(op string, kind, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}

// Kind returns a short tag for err, suitable for logs and skip reports.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateKey):
		return "duplicate"
	case errors.Is(err, ErrReferential):
		return "referential"
	case errors.Is(err, ErrMalformedInput):
		return "malformed"
	case errors.Is(err, ErrStorageUnavailable):
		return "unavailable"
	default:
		return "storage"
	}
}
