package manager

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pocketchat/internal/catalog"
	"pocketchat/internal/session"
	"pocketchat/pkg/types"
)

// fakeCatalog serves listings from a map keyed by label. A non-nil gate for a
// label blocks ListArtifacts until the gate is closed or ctx ends.
type fakeCatalog struct {
	mu       sync.Mutex
	listings map[string][]string
	errs     map[string]error
	gates    map[string]chan struct{}
	calls    int
}

func (c *fakeCatalog) Formats() []catalog.ModelFormat {
	return []catalog.ModelFormat{{Label: "Llama-3.2-1B-Instruct"}, {Label: "Qwen2-0.5B-Instruct"}}
}

func (c *fakeCatalog) ListArtifacts(ctx context.Context, f catalog.ModelFormat) ([]types.Artifact, error) {
	c.mu.Lock()
	c.calls++
	gate := c.gates[f.Label]
	files, ok := c.listings[f.Label]
	err := c.errs[f.Label]
	c.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, catalog.ErrUnknownFormat(f.Label)
	}
	var out []types.Artifact
	for _, n := range files {
		if strings.HasSuffix(n, ".gguf") {
			out = append(out, types.Artifact{Filename: n, Repository: "repo/" + f.Label})
		}
	}
	return out, nil
}

func (c *fakeCatalog) SourceURL(f catalog.ModelFormat, filename string) (string, error) {
	if _, ok := c.listings[f.Label]; !ok {
		return "", catalog.ErrUnknownFormat(f.Label)
	}
	return "https://hub.test/repo/" + f.Label + "/resolve/main/" + filename, nil
}

// fakeStore tracks which files exist.
type fakeStore struct {
	mu    sync.Mutex
	files map[string]bool
}

func newFakeStore(names ...string) *fakeStore {
	s := &fakeStore{files: map[string]bool{}}
	for _, n := range names {
		s.files[n] = true
	}
	return s
}

func (s *fakeStore) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[name]
}

func (s *fakeStore) ResolvePath(name string) string { return "/models/" + name }

func (s *fakeStore) ListWithMetadata() ([]types.LocalArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.LocalArtifact
	for n := range s.files {
		out = append(out, types.LocalArtifact{Filename: n, Path: "/models/" + n})
	}
	return out, nil
}

// fakeDownloader reports the configured progress ticks and then succeeds or
// fails with err. A non-nil gate blocks after the first tick.
type fakeDownloader struct {
	store *fakeStore
	ticks []int
	err   error
	gate  chan struct{}
	urls  []string
}

func (d *fakeDownloader) Download(ctx context.Context, filename, url string, onProgress func(int)) (string, error) {
	d.urls = append(d.urls, url)
	d.store.mu.Lock()
	delete(d.store.files, filename)
	d.store.mu.Unlock()
	for i, p := range d.ticks {
		onProgress(p)
		if i == 0 && d.gate != nil {
			select {
			case <-d.gate:
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	if d.err != nil {
		return "", d.err
	}
	d.store.mu.Lock()
	d.store.files[filename] = true
	d.store.mu.Unlock()
	return "/models/" + filename, nil
}

// fakeSession mimics session.Session: a missing file is rejected before the
// held handle is released, and at most one handle is live.
type fakeSession struct {
	mu      sync.Mutex
	store   *fakeStore
	loadErr error
	path    string
	loads   int
	reply   string
	stops   []string
}

func (s *fakeSession) Load(ctx context.Context, path string, opts session.LoadOptions) error {
	name := strings.TrimPrefix(path, "/models/")
	if !s.store.Exists(name) {
		return session.ErrModelFileMissing(path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	s.path = ""
	if s.loadErr != nil {
		return s.loadErr
	}
	s.path = path
	return nil
}

func (s *fakeSession) Unload() {
	s.mu.Lock()
	s.path = ""
	s.mu.Unlock()
}

func (s *fakeSession) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path != ""
}

func (s *fakeSession) State() (session.State, string) {
	if s.Ready() {
		return session.StateReady, ""
	}
	return session.StateUnloaded, ""
}

func (s *fakeSession) Complete(ctx context.Context, tr []types.Message, stops []string) (string, error) {
	s.mu.Lock()
	s.stops = stops
	s.mu.Unlock()
	if !s.Ready() {
		return "", session.ErrNoActiveSession
	}
	return s.reply, nil
}

func (s *fakeSession) Stream(ctx context.Context, tr []types.Message, stops []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !s.Ready() {
			yield("", session.ErrNoActiveSession)
			return
		}
		for _, f := range strings.SplitAfter(s.reply, " ") {
			if !yield(f, nil) {
				return
			}
		}
	}
}

// mapPrefs is an in-memory Preferences.
type mapPrefs struct {
	mu  sync.Mutex
	m   map[string]string
	err error
}

func (p *mapPrefs) Get(k string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", false, p.err
	}
	v, ok := p.m[k]
	return v, ok, nil
}

func (p *mapPrefs) Set(k, v string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = map[string]string{}
	}
	p.m[k] = v
	return nil
}

type fixture struct {
	m     *Manager
	cat   *fakeCatalog
	store *fakeStore
	dl    *fakeDownloader
	sess  *fakeSession
	prefs *mapPrefs
	pub   *MemoryPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		cat: &fakeCatalog{
			listings: map[string][]string{
				"Llama-3.2-1B-Instruct": {"model-Q2_K.gguf", "model-Q4_0.gguf", "readme.md"},
				"Qwen2-0.5B-Instruct":   {"qwen-Q8_0.gguf"},
			},
			errs:  map[string]error{},
			gates: map[string]chan struct{}{},
		},
		store: newFakeStore(),
		prefs: &mapPrefs{},
		pub:   NewMemoryPublisher(),
	}
	f.dl = &fakeDownloader{store: f.store, ticks: []int{0, 25, 50, 75, 100}}
	f.sess = &fakeSession{store: f.store, reply: "hello there"}
	f.m = NewWithConfig(ManagerConfig{
		Catalog:     f.cat,
		Store:       f.store,
		Downloader:  f.dl,
		Session:     f.sess,
		Prefs:       f.prefs,
		LoadOptions: session.LoadOptions{ContextSize: 2048, GPULayers: 1, MLock: true},
		Publisher:   f.pub,
		Logger:      zerolog.Nop(),
	})
	return f
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

var errBoom = errors.New("boom")
