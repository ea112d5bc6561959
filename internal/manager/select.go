package manager

import (
	"context"

	"pocketchat/internal/catalog"
)

// SelectFormat lists the artifacts of the format labelled label. The previous
// listing is cleared first. A listing still in flight is canceled and its
// result discarded. Rejected with a busy error while a download or load runs.
func (m *Manager) SelectFormat(ctx context.Context, label string) error {
	m.mu.Lock()
	if m.state.busy() {
		st := m.state
		m.mu.Unlock()
		return ErrBusy(st)
	}
	id, lctx := m.beginLocked(ctx)
	m.artifacts = nil
	m.pending = ""
	m.format = label
	m.lastErr = ""
	m.setStateLocked(StateListingArtifacts)
	m.mu.Unlock()
	m.publisher.Publish(Event{Name: EventFormatSelected, Fields: map[string]any{"format": label, "attempt": id}})

	arts, err := m.catalog.ListArtifacts(lctx, catalog.ModelFormat{Label: label})

	m.mu.Lock()
	if !m.finishLocked(id) {
		m.mu.Unlock()
		m.log.Debug().Str("format", label).Uint64("attempt", id).Msg("listing superseded")
		return ErrSuperseded
	}
	if err != nil {
		m.artifacts = nil
		m.format = ""
		m.lastErr = err.Error()
		m.setStateLocked(StateSelectingFormat)
		m.mu.Unlock()
		m.log.Warn().Err(err).Str("format", label).Msg("list artifacts failed")
		m.publisher.Publish(Event{Name: EventListFailed, Fields: map[string]any{"format": label, "error": err.Error()}})
		return err
	}
	m.artifacts = arts
	m.setStateLocked(StateSelectingArtifact)
	m.mu.Unlock()
	m.publisher.Publish(Event{Name: EventArtifactsListed, Fields: map[string]any{"format": label, "count": len(arts)}})
	return nil
}

// SelectArtifact marks filename as awaiting download confirmation. The name
// must come from the current listing.
func (m *Manager) SelectArtifact(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.busy() {
		return ErrBusy(m.state)
	}
	if m.state != StateSelectingArtifact {
		return ErrInvalidTransition("select_artifact", m.state)
	}
	for _, a := range m.artifacts {
		if a.Filename == filename {
			m.pending = filename
			return nil
		}
	}
	return ErrArtifactNotListed(filename)
}
