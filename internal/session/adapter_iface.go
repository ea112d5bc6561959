package session

import "context"

// InferenceAdapter abstracts the model runtime behind a Session.
type InferenceAdapter interface {
	// Start loads the weights at modelPath and returns a live handle.
	Start(modelPath string, opts LoadOptions) (InferSession, error)
}

// InferSession is one loaded model.
type InferSession interface {
	// Generate runs a completion for prompt. onToken, when non-nil, receives
	// each fragment as it is produced; returning an error from it stops
	// generation. Implementations must return when ctx is canceled.
	Generate(ctx context.Context, prompt string, params InferParams, onToken func(string) error) (string, error)
	// Close releases the native resources held by the handle.
	Close() error
}

// LoadOptions are passed through to the engine unchanged.
type LoadOptions struct {
	ContextSize int
	GPULayers   int
	MLock       bool
	Threads     int
}

// InferParams captures per-completion generation parameters.
type InferParams struct {
	MaxTokens int
	Stop      []string
	Threads   int
}
