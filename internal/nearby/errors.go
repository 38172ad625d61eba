package nearby

import "errors"

// Error kinds returned by searches. Storage backends wrap driver errors with
// one of these so callers can use errors.Is without knowing the driver.
var (
	// ErrInvalidArgument is returned for non-finite or out-of-range
	// coordinates and non-positive search radii
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageUnavailable is returned when the dataset is missing,
	// unreadable or the database cannot be reached
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageCorrupt is returned when the dataset fails an integrity check
	ErrStorageCorrupt = errors.New("storage corrupt")

	// ErrQueryFailed is returned when a statement cannot be prepared, bound or scanned
	ErrQueryFailed = errors.New("query failed")

	// ErrCanceled is returned when the caller's context was canceled or
	// timed out before the search finished
	ErrCanceled = errors.New("search canceled")
)

// Reason returns a short label for the kind of err, suitable for metrics
// and log fields. It returns "" for nil.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrStorageUnavailable):
		return "storage_unavailable"
	case errors.Is(err, ErrStorageCorrupt):
		return "storage_corrupt"
	case errors.Is(err, ErrQueryFailed):
		return "query_failed"
	case errors.Is(err, ErrCanceled):
		return "canceled"
	default:
		return "internal"
	}
}
