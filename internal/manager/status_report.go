package manager

import (
	"time"

	"pocketchat/pkg/types"
)

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	st, _ := m.session.State()
	m.mu.RLock()
	defer m.mu.RUnlock()
	arts := make([]types.Artifact, len(m.artifacts))
	copy(arts, m.artifacts)
	return Snapshot{
		State:     m.state,
		Page:      m.page,
		Format:    m.format,
		Artifacts: arts,
		Pending:   m.pending,
		Current:   m.current,
		Download:  m.download,
		Session:   string(st),
		LastError: m.lastErr,
		Attempt:   m.attempt,
	}
}

// Status builds the detailed response for /status.
func (m *Manager) Status() types.StatusResponse {
	s := m.Snapshot()
	m.mu.RLock()
	loads := m.loads
	m.mu.RUnlock()
	now := time.Now()
	return types.StatusResponse{
		State:     string(s.State),
		Page:      string(s.Page),
		Format:    s.Format,
		Artifacts: s.Artifacts,
		Pending:   s.Pending,
		Current:   s.Current,
		Download: types.DownloadStatus{
			IsDownloading:   s.Download.IsDownloading,
			ProgressPercent: s.Download.ProgressPercent,
		},
		Session:        s.Session,
		LastError:      s.LastError,
		Attempt:        s.Attempt,
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
		LoadsTotal:     loads,
	}
}
