package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// fakeAdapter hands out handles that replay a fixed reply token by token and
// tracks how many are alive.
type fakeAdapter struct {
	mu       sync.Mutex
	live     int
	maxLive  int
	starts   int
	startErr error
	reply    []string
	genErr   error
	lastOpts LoadOptions
	prompts  []string
	params   []InferParams
	block    chan struct{}
	inGen    atomic.Bool
}

func (a *fakeAdapter) Start(path string, opts LoadOptions) (InferSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.starts++
	a.lastOpts = opts
	if a.startErr != nil {
		return nil, a.startErr
	}
	a.live++
	if a.live > a.maxLive {
		a.maxLive = a.live
	}
	return &fakeHandle{a: a}, nil
}

func (a *fakeAdapter) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

type fakeHandle struct {
	a      *fakeAdapter
	closed bool
}

func (h *fakeHandle) Generate(ctx context.Context, prompt string, p InferParams, onToken func(string) error) (string, error) {
	h.a.mu.Lock()
	h.a.prompts = append(h.a.prompts, prompt)
	h.a.params = append(h.a.params, p)
	block, reply, genErr := h.a.block, h.a.reply, h.a.genErr
	h.a.mu.Unlock()
	h.a.inGen.Store(true)
	defer h.a.inGen.Store(false)
	if block != nil {
		<-block
	}
	if genErr != nil {
		return "", genErr
	}
	var b strings.Builder
	for _, tok := range reply {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if onToken != nil {
			if err := onToken(tok); err != nil {
				return b.String(), err
			}
		}
		b.WriteString(tok)
	}
	return b.String(), nil
}

func (h *fakeHandle) Close() error {
	if h.closed {
		return errors.New("double close")
	}
	h.closed = true
	h.a.mu.Lock()
	h.a.live--
	h.a.mu.Unlock()
	return nil
}

func writeModel(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("gguf"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return p
}
