// Package e2e drives the HTTP API over the real catalog, store, downloader,
// session, manager and conversation wiring. Only the model host and the
// inference engine are faked.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pocketchat/internal/catalog"
	"pocketchat/internal/conversation"
	"pocketchat/internal/download"
	"pocketchat/internal/history"
	"pocketchat/internal/httpapi"
	"pocketchat/internal/manager"
	"pocketchat/internal/prefs"
	"pocketchat/internal/session"
	"pocketchat/internal/store"
	"pocketchat/pkg/types"
)

const (
	llamaLabel = "Llama-3.2-1B-Instruct"
	llamaRepo  = "medmekk/Llama-3.2-1B-Instruct.GGUF"
	q2File     = "Llama-3.2-1B-Instruct-Q2_K.gguf"
	q4File     = "Llama-3.2-1B-Instruct-Q4_0.gguf"
)

// fakeHub serves a repository listing and file downloads. Files absent from
// blobs answer 404.
type fakeHub struct {
	srv   *httptest.Server
	blobs map[string][]byte
}

func newFakeHub(t *testing.T) *fakeHub {
	t.Helper()
	h := &fakeHub{blobs: map[string][]byte{
		q2File: bytes.Repeat([]byte("w"), 4096),
	}}
	h.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/models/"+llamaRepo:
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"`+llamaRepo+`","siblings":[{"rfilename":".gitattributes"},{"rfilename":"`+q2File+`"},{"rfilename":"`+q4File+`"},{"rfilename":"README.md"}]}`)
		case strings.HasPrefix(r.URL.Path, "/"+llamaRepo+"/resolve/main/"):
			b, ok := h.blobs[strings.TrimPrefix(r.URL.Path, "/"+llamaRepo+"/resolve/main/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write(b)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(h.srv.Close)
	return h
}

// echoAdapter is an engine that answers every prompt with a fixed reply,
// one word per token.
type echoAdapter struct {
	mu      sync.Mutex
	reply   string
	prompts []string
}

func (a *echoAdapter) Start(string, session.LoadOptions) (session.InferSession, error) {
	return &echoHandle{a: a}, nil
}

func (a *echoAdapter) Prompts() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.prompts...)
}

type echoHandle struct{ a *echoAdapter }

func (h *echoHandle) Generate(ctx context.Context, prompt string, _ session.InferParams, onToken func(string) error) (string, error) {
	h.a.mu.Lock()
	h.a.prompts = append(h.a.prompts, prompt)
	reply := h.a.reply
	h.a.mu.Unlock()
	if onToken != nil {
		for _, tok := range strings.SplitAfter(reply, " ") {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			if err := onToken(tok); err != nil {
				return "", err
			}
		}
	}
	return reply, nil
}

func (h *echoHandle) Close() error { return nil }

// stack is one process worth of wiring rooted at dir.
type stack struct {
	srv     *httptest.Server
	mgr     *manager.Manager
	chat    *conversation.Controller
	prefs   *prefs.Store
	archive *history.Archive
	engine  *echoAdapter
	events  *manager.MemoryPublisher
	closed  bool
}

func newStack(t *testing.T, hub *fakeHub, dir string) *stack {
	t.Helper()
	ctx := context.Background()
	st, err := store.New(filepath.Join(dir, "models"), "")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	p, err := prefs.Open(prefs.Config{Dir: filepath.Join(dir, "prefs"), Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("prefs: %v", err)
	}
	arch, err := history.Open(ctx, filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	s := &stack{prefs: p, archive: arch, engine: &echoAdapter{reply: "Cool the burn under running water."}}
	s.events = manager.NewRingPublisher(64)

	cat := catalog.New(catalog.Options{
		BaseURL: hub.srv.URL,
		Formats: []catalog.Mapping{{Label: llamaLabel, Repository: llamaRepo}},
	})
	sess := session.New(s.engine, session.Options{})
	s.mgr = manager.NewWithConfig(manager.ManagerConfig{
		Catalog:    cat,
		Store:      st,
		Downloader: download.New(st, download.Options{}),
		Session:    sess,
		Prefs:      p,
		// The ring sees an event only after the transcript reacted to it.
		Publisher: manager.Publishers{
			manager.PublisherFunc(func(e manager.Event) { s.chat.Publish(e) }),
			s.events,
		},
		Logger: zerolog.Nop(),
	})
	s.chat = conversation.New(s.mgr, arch, zerolog.Nop())
	s.srv = httptest.NewServer(httpapi.NewMux(s.mgr, s.chat))
	t.Cleanup(s.close)
	return s
}

func (s *stack) close() {
	if s.closed {
		return
	}
	s.closed = true
	s.srv.Close()
	s.mgr.Unload()
	_ = s.archive.Close()
	_ = s.prefs.Close()
}

func (s *stack) post(t *testing.T, path string, body any) (*http.Response, []byte) {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(s.srv.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func (s *stack) get(t *testing.T, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(s.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp, out
}

func (s *stack) status(t *testing.T) types.StatusResponse {
	t.Helper()
	_, b := s.get(t, "/status")
	var st types.StatusResponse
	if err := json.Unmarshal(b, &st); err != nil {
		t.Fatalf("status json: %v (%s)", err, b)
	}
	return st
}

// waitStatus polls /status until cond holds.
func (s *stack) waitStatus(t *testing.T, cond func(types.StatusResponse) bool) types.StatusResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		st := s.status(t)
		if cond(st) {
			return st
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting; last status %+v", st)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (s *stack) transcript(t *testing.T) types.TranscriptResponse {
	t.Helper()
	_, b := s.get(t, "/transcript")
	var tr types.TranscriptResponse
	if err := json.Unmarshal(b, &tr); err != nil {
		t.Fatalf("transcript json: %v", err)
	}
	return tr
}

// pull selects the format and artifact, confirms, and waits for the attempt to settle.
func (s *stack) pull(t *testing.T, filename string) types.StatusResponse {
	t.Helper()
	if resp, b := s.post(t, "/format", types.SelectFormatRequest{Format: llamaLabel}); resp.StatusCode != http.StatusOK {
		t.Fatalf("select format: %d %s", resp.StatusCode, b)
	}
	if resp, b := s.post(t, "/artifact", types.SelectArtifactRequest{Filename: filename}); resp.StatusCode != http.StatusOK {
		t.Fatalf("select artifact: %d %s", resp.StatusCode, b)
	}
	resp, b := s.post(t, "/artifact/confirm", types.ConfirmRequest{Accept: true})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("confirm: %d %s", resp.StatusCode, b)
	}
	st := s.waitStatus(t, func(st types.StatusResponse) bool {
		return st.State == "ready" || st.State == "selecting_format" || st.State == "selecting_artifact"
	})
	if st.State == "ready" {
		s.waitEvent(t, manager.EventSessionReady)
	}
	return st
}

// waitEvent waits until the manager has published an event called name.
func (s *stack) waitEvent(t *testing.T, name string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		for _, n := range s.events.Names() {
			if n == name {
				return
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s; saw %v", name, s.events.Names())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
