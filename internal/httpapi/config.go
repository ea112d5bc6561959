package httpapi

import (
	"time"

	"pocketchat/internal/manager"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes sets the maximum request body size; non-positive restores 1 MiB.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// chatTimeout bounds a single /chat request. Zero means no additional timeout
// beyond server/connection timeouts.
var chatTimeout time.Duration

// SetChatTimeoutSeconds sets the /chat timeout in seconds (0 disables).
func SetChatTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	chatTimeout = time.Duration(sec) * time.Second
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

var (
	defaultCORSMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", "X-Log-Level", "X-Request-Id"}
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty method
// and header lists fall back to what the API uses.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
	if len(corsAllowedMethods) == 0 {
		corsAllowedMethods = append(corsAllowedMethods, defaultCORSMethods...)
	}
	if len(corsAllowedHeaders) == 0 {
		corsAllowedHeaders = append(corsAllowedHeaders, defaultCORSHeaders...)
	}
}

// EventLog exposes recent manager events.
type EventLog interface {
	Events() []manager.Event
}

// eventLog backs GET /events; nil serves an empty list.
var eventLog EventLog

// SetEventLog sets the source of GET /events.
func SetEventLog(l EventLog) { eventLog = l }
