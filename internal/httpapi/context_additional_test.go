package httpapi

import (
	"context"
	"testing"
	"time"
)

func TestSetBaseContext_NilResetsToBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	SetBaseContext(ctx)
	// nolint:staticcheck // SA1012: nil is the documented reset
	SetBaseContext(nil)
	cancel()
	if serverBaseCtx.Err() != nil {
		t.Fatalf("base context should be Background after reset")
	}
}

func TestJoinContexts_CancelsWhenEitherDone(t *testing.T) {
	for _, first := range []string{"a", "b"} {
		a, ac := context.WithCancel(context.Background())
		b, bc := context.WithCancel(context.Background())
		j, cancelJ := joinContexts(a, b)
		if first == "a" {
			ac()
		} else {
			bc()
		}
		select {
		case <-j.Done():
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("joined context did not cancel when %s was canceled", first)
		}
		cancelJ()
		ac()
		bc()
	}
}

func TestJoinContexts_CancelFuncReleases(t *testing.T) {
	a, ac := context.WithCancel(context.Background())
	defer ac()
	j, cancelJ := joinContexts(a, context.Background())
	cancelJ()
	if j.Err() == nil {
		t.Fatalf("cancel func should cancel the joined context")
	}
}
