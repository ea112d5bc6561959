package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"pocketchat/internal/catalog"
	"pocketchat/internal/conversation"
	"pocketchat/internal/download"
	"pocketchat/internal/manager"
	"pocketchat/internal/session"
	"pocketchat/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case catalog.IsUnknownFormat(err), manager.IsArtifactNotListed(err):
		return http.StatusNotFound
	case errors.Is(err, download.ErrInvalidArgument), errors.Is(err, conversation.ErrEmptyInput):
		return http.StatusBadRequest
	case manager.IsBusy(err), manager.IsInvalidTransition(err), errors.Is(err, manager.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, session.ErrNoActiveSession), session.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case catalog.IsNetworkError(err), catalog.IsMalformedResponse(err), download.IsDownloadFailed(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err with its mapped status and counts conflicts.
func writeError(w http.ResponseWriter, err error) int {
	status := statusFor(err)
	if status == http.StatusConflict {
		switch {
		case manager.IsBusy(err):
			IncrementConflict("busy")
		case errors.Is(err, manager.ErrSuperseded):
			IncrementConflict("superseded")
		default:
			IncrementConflict("transition")
		}
	}
	writeJSONError(w, status, err.Error())
	return status
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
