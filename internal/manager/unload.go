package manager

// Unload aborts any in-flight listing or download, releases the session and
// returns to format selection. The last used model stays persisted.
func (m *Manager) Unload() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.attempt++
	model := m.current
	m.current = ""
	m.pending = ""
	m.artifacts = nil
	m.format = ""
	m.download = DownloadState{}
	m.page = PageModelSelection
	m.setStateLocked(StateSelectingFormat)
	m.mu.Unlock()

	// Waits for an in-flight completion or load to finish first.
	m.session.Unload()
	m.log.Info().Str("model", model).Msg("session unloaded")
	m.publisher.Publish(Event{Name: EventUnload, Model: model})
}
