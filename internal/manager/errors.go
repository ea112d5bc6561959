package manager

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by an operation whose result was discarded
// because a newer operation started meanwhile.
var ErrSuperseded = errors.New("operation superseded")

// busyError signals an operation rejected while a download or load is running.
type busyError struct{ state State }

func (e busyError) Error() string { return fmt.Sprintf("busy: %s in progress", e.state) }

// ErrBusy constructs a busyError for the running state.
func ErrBusy(state State) error { return busyError{state: state} }

// IsBusy reports whether err indicates a rejected concurrent operation (409).
func IsBusy(err error) bool {
	var e busyError
	return errors.As(err, &e)
}

// artifactNotListedError signals a selection outside the current listing.
type artifactNotListedError struct{ filename string }

func (e artifactNotListedError) Error() string { return "artifact not listed: " + e.filename }

// ErrArtifactNotListed constructs an artifactNotListedError.
func ErrArtifactNotListed(filename string) error { return artifactNotListedError{filename: filename} }

// IsArtifactNotListed reports whether err indicates an unknown artifact (404).
func IsArtifactNotListed(err error) bool {
	var e artifactNotListedError
	return errors.As(err, &e)
}

// invalidTransitionError signals an operation not allowed in the current state.
type invalidTransitionError struct {
	op    string
	state State
}

func (e invalidTransitionError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.op, e.state)
}

// ErrInvalidTransition constructs an invalidTransitionError.
func ErrInvalidTransition(op string, state State) error {
	return invalidTransitionError{op: op, state: state}
}

// IsInvalidTransition reports whether err indicates an out-of-order call (409).
func IsInvalidTransition(err error) bool {
	var e invalidTransitionError
	return errors.As(err, &e)
}
