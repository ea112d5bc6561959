package manager

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pocketchat/internal/catalog"
	"pocketchat/internal/session"
	"pocketchat/pkg/types"
)

// Catalog lists remote artifacts per format.
type Catalog interface {
	Formats() []catalog.ModelFormat
	ListArtifacts(ctx context.Context, format catalog.ModelFormat) ([]types.Artifact, error)
	SourceURL(format catalog.ModelFormat, filename string) (string, error)
}

// ArtifactStore is local artifact storage.
type ArtifactStore interface {
	Exists(filename string) bool
	ResolvePath(filename string) string
	ListWithMetadata() ([]types.LocalArtifact, error)
}

// Downloader fetches an artifact to local storage.
type Downloader interface {
	Download(ctx context.Context, filename, sourceURL string, onProgress func(int)) (string, error)
}

// Session is the single inference context.
type Session interface {
	Load(ctx context.Context, path string, opts session.LoadOptions) error
	Unload()
	Ready() bool
	State() (session.State, string)
	Complete(ctx context.Context, transcript []types.Message, stops []string) (string, error)
	Stream(ctx context.Context, transcript []types.Message, stops []string) iter.Seq2[string, error]
}

// Preferences is durable key-value storage.
type Preferences interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Manager struct {
	catalog    Catalog
	store      ArtifactStore
	downloader Downloader
	session    Session
	prefs      Preferences
	loadOpts   session.LoadOptions
	publisher  EventPublisher
	log        zerolog.Logger
	startTime  time.Time

	mu        sync.RWMutex
	state     State
	page      Page
	format    string
	artifacts []types.Artifact
	pending   string
	current   string
	download  DownloadState
	lastErr   string
	attempt   uint64
	// cancel aborts the in-flight listing or acquisition, if any.
	cancel context.CancelFunc
	loads  uint64
}

// Formats returns the selectable format labels in display order.
func (m *Manager) Formats() []string {
	fs := m.catalog.Formats()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Label
	}
	return out
}

// Artifacts returns the listing for the selected format.
func (m *Manager) Artifacts() (string, []types.Artifact) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Artifact, len(m.artifacts))
	copy(out, m.artifacts)
	return m.format, out
}

// LocalArtifacts lists the artifacts already on disk.
func (m *Manager) LocalArtifacts() ([]types.LocalArtifact, error) {
	return m.store.ListWithMetadata()
}

// SessionReady reports whether a model is loaded and can answer completions.
func (m *Manager) SessionReady() bool {
	return m.session.Ready()
}

// Ready reports whether the manager reached StateReady.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady
}

// setStateLocked moves to next and counts the transition. Callers hold m.mu.
func (m *Manager) setStateLocked(next State) {
	if m.state == next {
		return
	}
	transitionsTotal.WithLabelValues(string(m.state), string(next)).Inc()
	m.log.Debug().Str("from", string(m.state)).Str("to", string(next)).Uint64("attempt", m.attempt).Msg("state")
	m.state = next
}

// beginLocked starts a new attempt, aborting whatever was in flight.
// Callers hold m.mu.
func (m *Manager) beginLocked(parent context.Context) (uint64, context.Context) {
	if m.cancel != nil {
		m.cancel()
	}
	m.attempt++
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	return m.attempt, ctx
}

// finishLocked releases the cancel func of attempt id when it is still current.
// Callers hold m.mu.
func (m *Manager) finishLocked(id uint64) bool {
	if m.attempt != id {
		return false
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	return true
}
