package source

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

func TestAdapter_NormalizesAndCloses(t *testing.T) {
	a := NewAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	events, err := a.Start(context.Background())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	ts := time.Date(2026, 3, 14, 9, 41, 0, 0, time.UTC)
	a.FocusChanged("com.example.editor", "Editor", ts)
	a.KeyDown(domain.SubjectHint{BundleID: "com.example.editor"}, 4, false, ts)
	a.Stop()

	var got []domain.Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if got[0].Kind != domain.EventFocusChanged || got[0].Subject.BundleID != "com.example.editor" {
		t.Errorf("unexpected first event: %+v", got[0])
	}
	if got[1].Kind != domain.EventKeyDown || got[1].KeyCode != 4 {
		t.Errorf("unexpected second event: %+v", got[1])
	}
}

func TestAdapter_PushAfterStopIsIgnored(t *testing.T) {
	a := NewAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.Stop()
	// Must not panic on the closed channel.
	a.System(domain.SystemSleep, time.Now())
}

func TestAdapter_DropsOnBackpressure(t *testing.T) {
	a := NewAdapter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for i := 0; i < eventBuffer+10; i++ {
		a.KeyDown(domain.SubjectHint{BundleID: "com.example.editor"}, 4, false, time.Now())
	}
	if a.Dropped() != 10 {
		t.Errorf("dropped = %d, want 10", a.Dropped())
	}
}
