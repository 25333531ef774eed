package capture

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestManagerRejectsSecondStart(t *testing.T) {
	m := NewManager(testConfig(), okProcessor("d"), zap.NewNop())

	first, err := m.Start()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer first.Cancel(context.Background())

	if _, err := m.Start(); !errors.Is(err, ErrCaptureInProgress) {
		t.Fatalf("expected ErrCaptureInProgress, got %v", err)
	}
	if m.Active() != first {
		t.Fatalf("expected first session to remain active")
	}
}

func TestManagerStartsAgainAfterFinish(t *testing.T) {
	m := NewManager(testConfig(), okProcessor("d"), zap.NewNop())

	first, _ := m.Start()
	first.Cancel(context.Background())
	waitDone(t, first)

	second, err := m.Start()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer second.Cancel(context.Background())
	if second.ID() == first.ID() {
		t.Fatalf("expected a fresh session id")
	}
	if _, err := m.Get(first.ID()); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected old id to be unknown, got %v", err)
	}
}

func TestManagerGet(t *testing.T) {
	m := NewManager(testConfig(), okProcessor("d"), zap.NewNop())
	if _, err := m.Get("missing"); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}

	s, _ := m.Start()
	defer s.Cancel(context.Background())
	got, err := m.Get(s.ID())
	if err != nil || got != s {
		t.Fatalf("expected to get started session, got %v / %v", got, err)
	}
}
