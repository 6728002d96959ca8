package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Blob Store & Coordinator Errors
var (
	ErrStorageFailure       = errors.New("blob storage failure")
	ErrInvalidFilename      = errors.New("invalid filename")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// NewStorageFailureError reports a blob write/delete I/O failure.
func NewStorageFailureError(operation, filename string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageFailure,
		Details:    fmt.Sprintf("Failed to %s blob %q", operation, filename),
		Cause:      cause,
	}
}

// NewInvalidFilenameError rejects empty names and names carrying path
// separators before anything touches the blob store.
func NewInvalidFilenameError(filename string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidFilename,
		Details:    fmt.Sprintf("Filename %q is empty or contains a path separator", filename),
		Field:      "filename",
	}
}

// NewConfirmationRequiredError guards destructive operations behind an
// explicit confirm flag.
func NewConfirmationRequiredError(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrConfirmationRequired,
		Details:    fmt.Sprintf("Deleting a %s requires confirm=true", entity),
		Field:      "confirm",
	}
}

func IsStorageFailureError(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

func IsInvalidFilenameError(err error) bool {
	return errors.Is(err, ErrInvalidFilename)
}

func IsConfirmationRequiredError(err error) bool {
	return errors.Is(err, ErrConfirmationRequired)
}
