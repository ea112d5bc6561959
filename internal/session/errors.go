package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveSession is returned when a completion is requested with no model loaded.
	ErrNoActiveSession = errors.New("no active session")
	// ErrEmptyResponse is returned when the engine produced no text.
	ErrEmptyResponse = errors.New("empty response")
)

// modelFileMissingError signals a load of a path that is not a regular file.
type modelFileMissingError struct{ path string }

func (e modelFileMissingError) Error() string { return "model file missing: " + e.path }

// ErrModelFileMissing constructs a modelFileMissingError.
func ErrModelFileMissing(path string) error { return modelFileMissingError{path: path} }

// IsModelFileMissing reports whether err indicates a missing weights file.
func IsModelFileMissing(err error) bool {
	var e modelFileMissingError
	return errors.As(err, &e)
}

// loadFailedError wraps an engine failure while creating a handle.
type loadFailedError struct {
	path  string
	cause error
}

func (e loadFailedError) Error() string { return fmt.Sprintf("load %s: %v", e.path, e.cause) }

func (e loadFailedError) Unwrap() error { return e.cause }

// IsLoadFailed reports whether err came from a failed engine load.
func IsLoadFailed(err error) bool {
	var e loadFailedError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a missing runtime (e.g. llama.cpp not
// compiled in) so callers can answer 503 instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}
