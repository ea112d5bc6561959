package session

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pocketchat/internal/common/fsutil"
	"pocketchat/pkg/types"
)

// State is the lifecycle of the inference context.
type State string

const (
	StateUnloaded State = "unloaded"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

// Options configures a Session.
type Options struct {
	MaxTokens int
	Threads   int
	Logger    zerolog.Logger
}

// Session holds at most one live model handle.
type Session struct {
	adapter InferenceAdapter
	params  InferParams
	log     zerolog.Logger

	// run serializes Load, Unload and generation.
	run sync.Mutex

	mu     sync.RWMutex
	handle InferSession
	path   string
	state  State
	reason string
}

// New returns an unloaded Session backed by adapter.
func New(adapter InferenceAdapter, opts Options) *Session {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Session{
		adapter: adapter,
		params:  InferParams{MaxTokens: opts.MaxTokens, Threads: opts.Threads},
		log:     opts.Logger,
		state:   StateUnloaded,
	}
}

// State returns the current state and, when Failed, the reason.
func (s *Session) State() (State, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.reason
}

// ModelPath returns the path of the loaded model, or "".
func (s *Session) ModelPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Ready reports whether a handle is loaded.
func (s *Session) Ready() bool {
	st, _ := s.State()
	return st == StateReady
}

func (s *Session) set(st State, h InferSession, path, reason string) {
	s.mu.Lock()
	s.state, s.handle, s.path, s.reason = st, h, path, reason
	s.mu.Unlock()
}

// Load replaces the current handle with one for path. A missing file is
// rejected before anything is released. Otherwise the previous handle is
// closed before the new one is created.
func (s *Session) Load(ctx context.Context, path string, opts LoadOptions) error {
	if !fsutil.IsRegularFile(path) {
		return ErrModelFileMissing(path)
	}
	s.run.Lock()
	defer s.run.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.releaseLocked()
	s.set(StateLoading, nil, path, "")

	start := time.Now()
	h, err := s.adapter.Start(path, opts)
	if err != nil {
		s.set(StateFailed, nil, "", err.Error())
		s.log.Warn().Err(err).Str("path", path).Msg("model load failed")
		return loadFailedError{path: path, cause: err}
	}
	s.set(StateReady, h, path, "")
	s.log.Info().Str("path", path).Int("ctx", opts.ContextSize).Int("gpu_layers", opts.GPULayers).
		Bool("mlock", opts.MLock).Dur("dur", time.Since(start)).Msg("model loaded")
	return nil
}

// Unload releases the handle. It is a no-op when nothing is loaded.
func (s *Session) Unload() {
	s.run.Lock()
	defer s.run.Unlock()
	s.releaseLocked()
	s.set(StateUnloaded, nil, "", "")
}

func (s *Session) releaseLocked() {
	s.mu.RLock()
	h, path := s.handle, s.path
	s.mu.RUnlock()
	if h == nil {
		return
	}
	if err := h.Close(); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("model release failed")
	}
	s.set(StateUnloaded, nil, "", "")
}

func (s *Session) paramsWith(stops []string) InferParams {
	p := s.params
	if stops == nil {
		stops = DefaultStopWords
	}
	p.Stop = stops
	return p
}

// Complete runs one completion over transcript and returns the trimmed reply.
// A nil stops slice selects DefaultStopWords.
func (s *Session) Complete(ctx context.Context, transcript []types.Message, stops []string) (string, error) {
	s.run.Lock()
	defer s.run.Unlock()
	s.mu.RLock()
	h := s.handle
	s.mu.RUnlock()
	if h == nil {
		return "", ErrNoActiveSession
	}
	text, err := h.Generate(ctx, RenderPrompt(transcript), s.paramsWith(stops), nil)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

var errStopped = errors.New("stream stopped by consumer")

// Stream is Complete yielding fragments as the engine produces them. Every
// range over the returned sequence runs a fresh generation; breaking out of
// the loop stops it. A terminal error is yielded once with an empty fragment.
func (s *Session) Stream(ctx context.Context, transcript []types.Message, stops []string) iter.Seq2[string, error] {
	prompt := RenderPrompt(transcript)
	params := s.paramsWith(stops)
	return func(yield func(string, error) bool) {
		s.run.Lock()
		defer s.run.Unlock()
		s.mu.RLock()
		h := s.handle
		s.mu.RUnlock()
		if h == nil {
			yield("", ErrNoActiveSession)
			return
		}
		stopped := false
		produced := false
		_, err := h.Generate(ctx, prompt, params, func(tok string) error {
			if strings.TrimSpace(tok) != "" {
				produced = true
			}
			if !yield(tok, nil) {
				stopped = true
				return errStopped
			}
			return nil
		})
		if stopped {
			return
		}
		if err != nil {
			yield("", err)
			return
		}
		if !produced {
			yield("", ErrEmptyResponse)
		}
	}
}
