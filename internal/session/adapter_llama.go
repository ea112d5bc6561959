//go:build llama

package session

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// LlamaBuilt reports whether this binary carries the in-process llama runtime.
const LlamaBuilt = true

type llamaAdapter struct{}

// NewLlamaAdapter returns the go-llama.cpp backed adapter.
func NewLlamaAdapter() InferenceAdapter { return llamaAdapter{} }

type llamaSession struct {
	model *llama.LLama
}

func (llamaAdapter) Start(modelPath string, opts LoadOptions) (InferSession, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	mo := []llama.ModelOption{llama.SetContext(opts.ContextSize)}
	if opts.MLock {
		mo = append(mo, llama.EnableMLock)
	}
	if opts.GPULayers > 0 {
		mo = append(mo, llama.SetGPULayers(opts.GPULayers))
	}
	m, err := llama.New(modelPath, mo...)
	if err != nil {
		return nil, err
	}
	return &llamaSession{model: m}, nil
}

func (s *llamaSession) Generate(ctx context.Context, prompt string, params InferParams, onToken func(string) error) (string, error) {
	if s.model == nil {
		return "", errors.New("llama model not initialized")
	}
	var cbErr error
	s.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if onToken == nil {
			return true
		}
		if err := onToken(tok); err != nil {
			cbErr = err
			return false
		}
		return true
	})
	defer s.model.SetTokenCallback(nil)

	text, err := s.model.Predict(prompt, predictOptions(params)...)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if cbErr != nil {
		return text, cbErr
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *llamaSession) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}

func predictOptions(p InferParams) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(max(1, p.MaxTokens)),
		llama.SetThreads(max(1, p.Threads)),
	}
	if len(p.Stop) > 0 {
		po = append(po, llama.SetStopWords(p.Stop...))
	}
	return po
}
