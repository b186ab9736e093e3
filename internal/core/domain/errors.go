package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrRateLimited indicates the request rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Validation Errors.

	// ErrInvalidSlide indicates a slide number outside 1..slide count.
	ErrInvalidSlide = errors.New("invalid slide number")

	// ErrInputTooLarge indicates notes text longer than the configured maximum.
	ErrInputTooLarge = errors.New("input too large")

	// ErrFileTooLarge indicates a presentation larger than the configured maximum.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedExtension indicates a file extension outside the allowed set.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrOutsideWorkspace indicates a path outside every configured workspace directory.
	ErrOutsideWorkspace = errors.New("path outside workspace")

	// Container Errors.

	// ErrContainerUnreadable indicates the file cannot be opened or is not a zip archive.
	ErrContainerUnreadable = errors.New("container unreadable")

	// ErrEntryNotFound indicates a named part is missing from the container.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrNotesPartMissing indicates a slide has no resolvable notes part.
	// Only returned when the miss policy is MissFail.
	ErrNotesPartMissing = errors.New("notes part missing")

	// Commit Errors.

	// ErrCommitFailed indicates the new container could not be written or swapped in.
	// The target file is unchanged when this is returned.
	ErrCommitFailed = errors.New("commit failed")
)

// ErrorCode maps an error to a stable machine-readable code.
// Used by tool adapters that report errors as data rather than Go errors.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidSlide):
		return "INVALID_SLIDE_NUMBER"
	case errors.Is(err, ErrInputTooLarge):
		return "INPUT_TOO_LARGE"
	case errors.Is(err, ErrFileTooLarge):
		return "FILE_TOO_LARGE"
	case errors.Is(err, ErrUnsupportedExtension):
		return "INVALID_PATH"
	case errors.Is(err, ErrOutsideWorkspace):
		return "WORKSPACE_BOUNDARY_VIOLATION"
	case errors.Is(err, ErrNotFound):
		return "FILE_NOT_FOUND"
	case errors.Is(err, ErrContainerUnreadable):
		return "FILE_CORRUPTED"
	case errors.Is(err, ErrEntryNotFound):
		return "ENTRY_NOT_FOUND"
	case errors.Is(err, ErrNotesPartMissing):
		return "NOTES_NOT_FOUND"
	case errors.Is(err, ErrCommitFailed):
		return "COMMIT_FAILED"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMIT_EXCEEDED"
	case errors.Is(err, ErrInvalidInput):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
