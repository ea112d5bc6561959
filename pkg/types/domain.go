package types

// Role identifies the author of a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation transcript.
type Message struct {
	// Author of the message.
	// example: user
	Role Role `json:"role" example:"user"`
	// Message text.
	// example: Hello there
	Content string `json:"content" example:"Hello there"`
}

// SystemPrompt is the fixed first message of every transcript.
const SystemPrompt = "This is a conversation between user and assistant, a friendly chatbot."

// NewTranscript returns a transcript holding only the system message.
func NewTranscript() []Message {
	return []Message{{Role: RoleSystem, Content: SystemPrompt}}
}

// Artifact describes a downloadable model weight file.
type Artifact struct {
	// File name inside the remote repository.
	// example: Llama-3.2-1B-Instruct-Q4_0.gguf
	Filename string `json:"filename" example:"Llama-3.2-1B-Instruct-Q4_0.gguf"`
	// Remote repository the file belongs to.
	// example: medmekk/Llama-3.2-1B-Instruct.GGUF
	Repository string `json:"repository" example:"medmekk/Llama-3.2-1B-Instruct.GGUF"`
}

// LocalArtifact is an artifact present in local storage.
type LocalArtifact struct {
	// example: Llama-3.2-1B-Instruct-Q4_0.gguf
	Filename string `json:"filename" example:"Llama-3.2-1B-Instruct-Q4_0.gguf"`
	// Absolute path on disk.
	Path string `json:"path"`
	// File size in bytes.
	// example: 770928384
	SizeBytes int64 `json:"size_bytes" example:"770928384"`
	// Human readable size.
	// example: 770.9MB
	Size string `json:"size" example:"770.9MB"`
	// GGUF header metadata, when readable.
	Metadata *ArtifactMetadata `json:"metadata,omitempty"`
}

// ArtifactMetadata summarizes the GGUF header of a local artifact.
type ArtifactMetadata struct {
	// example: llama
	Architecture string `json:"architecture,omitempty" example:"llama"`
	// example: Q4_0
	Quantization string `json:"quantization,omitempty" example:"Q4_0"`
	// example: 1.24B
	Parameters string `json:"parameters,omitempty" example:"1.24B"`
	// example: 727.75MiB
	Size string `json:"size,omitempty" example:"727.75MiB"`
}
