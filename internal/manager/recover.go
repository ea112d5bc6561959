package manager

import (
	"context"

	"pocketchat/internal/prefs"
)

// Recover loads the last used model, if it is still on disk, without any
// selection steps. Failures are silent: the manager stays in
// StateSelectingFormat and Recover reports false.
func (m *Manager) Recover(ctx context.Context) bool {
	name, ok, err := m.prefs.Get(prefs.LastUsedModelKey)
	if err != nil || !ok || name == "" || !m.store.Exists(name) {
		m.log.Debug().Err(err).Str("model", name).Bool("persisted", ok).Msg("recovery skipped")
		m.publisher.Publish(Event{Name: EventRecoverSkipped, Model: name})
		return false
	}

	m.mu.Lock()
	if m.state != StateSelectingFormat {
		m.mu.Unlock()
		return false
	}
	id, lctx := m.beginLocked(ctx)
	m.setStateLocked(StateLoading)
	m.mu.Unlock()

	return m.load(lctx, id, name, m.store.ResolvePath(name), true) == nil
}
