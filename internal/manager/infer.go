package manager

import (
	"context"
	"iter"

	"pocketchat/internal/session"
	"pocketchat/pkg/types"
)

// Complete asks the loaded model for the next assistant turn of transcript.
// Generation ends at any of stops; nil selects session.DefaultStopWords.
func (m *Manager) Complete(ctx context.Context, transcript []types.Message, stops []string) (string, error) {
	if !m.session.Ready() {
		return "", session.ErrNoActiveSession
	}
	return m.session.Complete(ctx, transcript, stops)
}

// Stream is Complete yielding fragments as they are produced.
func (m *Manager) Stream(ctx context.Context, transcript []types.Message, stops []string) iter.Seq2[string, error] {
	if !m.session.Ready() {
		return func(yield func(string, error) bool) { yield("", session.ErrNoActiveSession) }
	}
	return m.session.Stream(ctx, transcript, stops)
}
