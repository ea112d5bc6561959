//go:build !llama

package session

// LlamaBuilt reports whether this binary carries the in-process llama runtime.
const LlamaBuilt = false

const stubMessage = "llama support not built (missing 'llama' build tag)"

type llamaAdapter struct{}

// NewLlamaAdapter returns an adapter that refuses every load in CGO-free builds.
func NewLlamaAdapter() InferenceAdapter { return llamaAdapter{} }

func (llamaAdapter) Start(string, LoadOptions) (InferSession, error) {
	return nil, ErrDependencyUnavailable(stubMessage)
}
