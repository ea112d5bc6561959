package manager

import (
	"context"
	"os"

	"pocketchat/internal/catalog"
	"pocketchat/internal/prefs"
)

// ConfirmDownload answers the confirmation prompt for the pending artifact.
// Declining clears the selection. Accepting downloads the artifact, records
// it as the last used model and loads it, returning when the session is ready
// or the attempt failed.
func (m *Manager) ConfirmDownload(ctx context.Context, accept bool) error {
	id, actx, fmtLabel, filename, err := m.beginConfirm(ctx, accept)
	if err != nil || id == 0 {
		return err
	}
	return m.acquire(actx, id, fmtLabel, filename)
}

// beginConfirm validates and applies the confirmation. id is zero when the
// prompt was declined.
func (m *Manager) beginConfirm(parent context.Context, accept bool) (uint64, context.Context, string, string, error) {
	m.mu.Lock()
	if m.state.busy() {
		st := m.state
		m.mu.Unlock()
		return 0, nil, "", "", ErrBusy(st)
	}
	if m.state != StateSelectingArtifact || m.pending == "" {
		st := m.state
		m.mu.Unlock()
		return 0, nil, "", "", ErrInvalidTransition("confirm_download", st)
	}
	if !accept {
		m.pending = ""
		m.mu.Unlock()
		return 0, nil, "", "", nil
	}
	id, actx := m.beginLocked(parent)
	filename, label := m.pending, m.format
	m.lastErr = ""
	m.page = PageConversation
	m.setStateLocked(StateConfirmingDownload)
	m.mu.Unlock()
	return id, actx, label, filename, nil
}

// acquire downloads then loads filename for attempt id.
func (m *Manager) acquire(ctx context.Context, id uint64, label, filename string) error {
	src, err := m.catalog.SourceURL(catalog.ModelFormat{Label: label}, filename)
	if err != nil {
		return m.failDownload(id, filename, err)
	}

	m.mu.Lock()
	if m.attempt != id {
		m.mu.Unlock()
		return ErrSuperseded
	}
	m.download = DownloadState{IsDownloading: true, ProgressPercent: 0}
	m.setStateLocked(StateDownloading)
	m.mu.Unlock()
	m.publisher.Publish(Event{Name: EventDownloadStart, Model: filename, Fields: map[string]any{"attempt": id}})

	path, err := m.downloader.Download(ctx, filename, src, func(pct int) { m.progress(id, pct) })
	if err != nil {
		return m.failDownload(id, filename, err)
	}
	downloadsTotal.WithLabelValues(resultOK).Inc()
	if fi, statErr := os.Stat(path); statErr == nil {
		downloadedBytes.Add(float64(fi.Size()))
	}

	// Persist before loading so a crash during load still recovers this model.
	if err := m.prefs.Set(prefs.LastUsedModelKey, filename); err != nil {
		m.log.Warn().Err(err).Str("model", filename).Msg("persist last used model failed")
	}

	m.mu.Lock()
	if m.attempt != id {
		m.mu.Unlock()
		return ErrSuperseded
	}
	m.download = DownloadState{IsDownloading: false, ProgressPercent: 100}
	m.setStateLocked(StateLoading)
	m.mu.Unlock()
	m.publisher.Publish(Event{Name: EventDownloadDone, Model: filename, Fields: map[string]any{"path": path}})

	return m.load(ctx, id, filename, path, false)
}

// progress applies a download tick when it belongs to the current attempt and
// does not move backwards.
func (m *Manager) progress(id uint64, pct int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempt != id || m.state != StateDownloading {
		return
	}
	if pct > 100 {
		pct = 100
	}
	if pct < m.download.ProgressPercent {
		return
	}
	m.download.ProgressPercent = pct
}

func (m *Manager) failDownload(id uint64, filename string, err error) error {
	m.mu.Lock()
	if !m.finishLocked(id) {
		m.mu.Unlock()
		downloadsTotal.WithLabelValues(resultSuperseded).Inc()
		return ErrSuperseded
	}
	// The loaded model keeps serving from memory, but its local copy is now
	// missing or partial.
	loaded := filename == m.current
	m.download = DownloadState{}
	m.pending = ""
	m.artifacts = nil
	m.format = ""
	m.lastErr = err.Error()
	m.page = PageModelSelection
	m.setStateLocked(StateSelectingFormat)
	m.mu.Unlock()
	downloadsTotal.WithLabelValues(resultError).Inc()
	m.log.Warn().Err(err).Str("model", filename).Bool("loaded", loaded).Msg("download failed")
	if loaded {
		m.log.Warn().Str("model", filename).
			Msg("local copy of the loaded model is incomplete; it stays loaded but startup recovery will not find it")
	}
	m.publisher.Publish(Event{Name: EventDownloadFailed, Model: filename, Fields: map[string]any{"error": err.Error(), "loaded": loaded}})
	return err
}

// load opens path in the session for attempt id. quiet suppresses the
// user-visible error, used by startup recovery.
func (m *Manager) load(ctx context.Context, id uint64, filename, path string, quiet bool) error {
	m.publisher.Publish(Event{Name: EventLoadStart, Model: filename, Fields: map[string]any{"path": path}})
	err := m.session.Load(ctx, path, m.loadOpts)

	m.mu.Lock()
	if !m.finishLocked(id) {
		m.mu.Unlock()
		loadsTotal.WithLabelValues(resultSuperseded).Inc()
		if err == nil {
			// Only Unload supersedes a load; it may have run before the handle existed.
			m.session.Unload()
		}
		return ErrSuperseded
	}
	if err != nil {
		m.current = ""
		m.pending = ""
		if !quiet {
			m.lastErr = err.Error()
		}
		if len(m.artifacts) > 0 {
			m.setStateLocked(StateSelectingArtifact)
		} else {
			m.setStateLocked(StateSelectingFormat)
		}
		m.mu.Unlock()
		loadsTotal.WithLabelValues(resultError).Inc()
		if quiet {
			m.log.Debug().Err(err).Str("model", filename).Msg("load failed")
		} else {
			m.log.Warn().Err(err).Str("model", filename).Msg("load failed")
		}
		m.publisher.Publish(Event{Name: EventLoadFailed, Model: filename, Fields: map[string]any{"error": err.Error()}})
		return err
	}
	m.current = filename
	m.pending = ""
	m.lastErr = ""
	m.loads++
	m.page = PageConversation
	m.setStateLocked(StateReady)
	m.mu.Unlock()
	loadsTotal.WithLabelValues(resultOK).Inc()
	m.log.Info().Str("model", filename).Msg("session ready")
	m.publisher.Publish(Event{Name: EventSessionReady, Model: filename, Fields: map[string]any{"path": path}})
	return nil
}
