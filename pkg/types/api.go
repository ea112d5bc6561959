package types

// FormatsResponse is returned by GET /formats.
type FormatsResponse struct {
	// Selectable model formats in display order.
	// example: ["Llama-3.2-1B-Instruct","Qwen2-0.5B-Instruct"]
	Formats []string `json:"formats"`
}

// SelectFormatRequest is the body of POST /format.
type SelectFormatRequest struct {
	// example: Llama-3.2-1B-Instruct
	Format string `json:"format" example:"Llama-3.2-1B-Instruct"`
}

// ArtifactsResponse is returned by GET /artifacts and POST /format.
type ArtifactsResponse struct {
	// Format the artifacts were listed for.
	// example: Llama-3.2-1B-Instruct
	Format string `json:"format" example:"Llama-3.2-1B-Instruct"`
	// Selectable artifacts.
	Artifacts []Artifact `json:"artifacts"`
}

// SelectArtifactRequest is the body of POST /artifact.
type SelectArtifactRequest struct {
	// example: Llama-3.2-1B-Instruct-Q4_0.gguf
	Filename string `json:"filename" example:"Llama-3.2-1B-Instruct-Q4_0.gguf"`
}

// ConfirmRequest is the body of POST /artifact/confirm.
type ConfirmRequest struct {
	// True to start the download, false to decline.
	// example: true
	Accept bool `json:"accept" example:"true"`
}

// ConfirmResponse acknowledges a download confirmation.
type ConfirmResponse struct {
	// Attempt id of the started download; zero when declined.
	// example: 7
	Attempt uint64 `json:"attempt" example:"7"`
	// State after the confirmation was applied.
	// example: downloading
	State string `json:"state" example:"downloading"`
}

// LocalResponse is returned by GET /local.
type LocalResponse struct {
	Artifacts []LocalArtifact `json:"artifacts"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	// User message text.
	// example: What should I do after a minor burn?
	Message string `json:"message" example:"What should I do after a minor burn?"`
	// Stream token fragments as NDJSON.
	// example: false
	Stream bool `json:"stream,omitempty" example:"false"`
}

// ChatResponse is the non-streaming reply of POST /chat.
type ChatResponse struct {
	Reply Message `json:"reply"`
}

// TranscriptResponse is returned by GET /transcript.
type TranscriptResponse struct {
	// Conversation id of the current transcript.
	// example: 5b7c2a8e-0d4b-4c1e-9f51-2b8a2f0d9b1e
	ConversationID string    `json:"conversation_id" example:"5b7c2a8e-0d4b-4c1e-9f51-2b8a2f0d9b1e"`
	Messages       []Message `json:"messages"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// DownloadStatus reports the current download attempt.
type DownloadStatus struct {
	// example: true
	IsDownloading bool `json:"is_downloading" example:"true"`
	// example: 45
	ProgressPercent int `json:"progress_percent" example:"45"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Lifecycle state of the manager.
	// example: selecting_artifact
	State string `json:"state" example:"selecting_artifact"`
	// Page the user interface should show.
	// example: model_selection
	Page string `json:"page" example:"model_selection"`
	// Selected model format, if any.
	// example: Llama-3.2-1B-Instruct
	Format string `json:"format,omitempty" example:"Llama-3.2-1B-Instruct"`
	// Artifacts listed for the selected format.
	Artifacts []Artifact `json:"artifacts"`
	// Artifact awaiting download confirmation.
	Pending string `json:"pending,omitempty"`
	// Artifact backing the current session.
	Current string `json:"current,omitempty"`
	// Download progress of the current attempt.
	Download DownloadStatus `json:"download"`
	// Inference session state.
	// example: ready
	Session string `json:"session" example:"ready"`
	// Last user-visible error.
	LastError string `json:"last_error,omitempty"`
	// Current attempt id.
	// example: 3
	Attempt uint64 `json:"attempt" example:"3"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total number of completed model loads.
	// example: 2
	LoadsTotal uint64 `json:"loads_total" example:"2"`
}

// Event is one manager lifecycle event.
type Event struct {
	// example: session_ready
	Name string `json:"name" example:"session_ready"`
	// example: Llama-3.2-1B-Instruct-Q4_0.gguf
	Model  string         `json:"model,omitempty" example:"Llama-3.2-1B-Instruct-Q4_0.gguf"`
	Fields map[string]any `json:"fields,omitempty"`
}

// EventsResponse is returned by GET /events.
type EventsResponse struct {
	Events []Event `json:"events"`
}
