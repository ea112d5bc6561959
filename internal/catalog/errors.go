package catalog

import (
	"errors"
	"fmt"
)

// unknownFormatError signals a label with no repository mapping.
type unknownFormatError struct{ label string }

func (e unknownFormatError) Error() string { return "unknown model format: " + e.label }

// ErrUnknownFormat returns an error for a label missing from the mapping.
func ErrUnknownFormat(label string) error { return unknownFormatError{label: label} }

// IsUnknownFormat reports whether err indicates an unmapped format label.
func IsUnknownFormat(err error) bool {
	var e unknownFormatError
	return errors.As(err, &e)
}

// malformedResponseError signals a listing body without the expected fields.
type malformedResponseError struct{ reason string }

func (e malformedResponseError) Error() string { return "malformed catalog response: " + e.reason }

// IsMalformedResponse reports whether err indicates an unusable catalog response.
func IsMalformedResponse(err error) bool {
	var e malformedResponseError
	return errors.As(err, &e)
}

// networkError wraps transport failures and non-2xx responses.
type networkError struct {
	status int
	cause  error
}

func (e networkError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("catalog request failed: %v", e.cause)
	}
	return fmt.Sprintf("catalog request failed with status %d", e.status)
}

func (e networkError) Unwrap() error { return e.cause }

// IsNetworkError reports whether err indicates a failed catalog request.
func IsNetworkError(err error) bool {
	var e networkError
	return errors.As(err, &e)
}
