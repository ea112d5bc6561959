package manager

import "context"

// ConfirmDownloadAsync is ConfirmDownload returning as soon as the attempt
// has started. The download and load run in the background, detached from
// ctx; poll Snapshot or Status to observe progress. The returned attempt id
// is zero when the prompt was declined.
func (m *Manager) ConfirmDownloadAsync(ctx context.Context, accept bool) (uint64, error) {
	id, actx, label, filename, err := m.beginConfirm(context.WithoutCancel(ctx), accept)
	if err != nil || id == 0 {
		return 0, err
	}
	go func() {
		if err := m.acquire(actx, id, label, filename); err != nil {
			m.log.Debug().Err(err).Uint64("attempt", id).Msg("background acquisition ended")
		}
	}()
	return id, nil
}
