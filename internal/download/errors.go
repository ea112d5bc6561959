package download

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for an empty filename or source URL.
var ErrInvalidArgument = errors.New("invalid download argument")

// failedError reports a download that did not complete. status is the HTTP
// status when the host answered; cause is the transport or write error otherwise.
type failedError struct {
	filename string
	status   int
	cause    error
}

func (e failedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("download %s failed: %v", e.filename, e.cause)
	}
	return fmt.Sprintf("download %s failed with status %d", e.filename, e.status)
}

func (e failedError) Unwrap() error { return e.cause }

// ErrDownloadFailed builds a failure for a non-200 response.
func ErrDownloadFailed(filename string, status int) error {
	return failedError{filename: filename, status: status}
}

// IsDownloadFailed reports whether err is a failed download.
func IsDownloadFailed(err error) bool {
	var e failedError
	return errors.As(err, &e)
}

// FailureStatus returns the HTTP status carried by a download failure, or 0
// when the failure was not an HTTP response.
func FailureStatus(err error) int {
	var e failedError
	if errors.As(err, &e) {
		return e.status
	}
	return 0
}
