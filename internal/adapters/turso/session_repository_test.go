package turso_test

import (
	"context"
	"testing"
	"time"

	"github.com/emiliopalmerini/focusd/internal/adapters/turso"
	"github.com/emiliopalmerini/focusd/internal/domain"
)

func TestFocusSessionRepositorySaveAndList(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	subjects := turso.NewSubjectRepository(db)
	subject, err := subjects.FindOrCreate(ctx, "com.example.editor", "Editor")
	if err != nil {
		t.Fatalf("FindOrCreate failed: %v", err)
	}

	repo := turso.NewFocusSessionRepository(db)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	session := &domain.FocusSession{
		SubjectID:     subject.ID,
		Start:         start,
		End:           start.Add(30 * time.Minute),
		Keystrokes:    1200,
		Interruptions: 2,
		DeepWork:      true,
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if session.ID == 0 {
		t.Fatal("expected Save to fill in the session id")
	}

	later := &domain.FocusSession{
		SubjectID:     subject.ID,
		Start:         start.Add(time.Hour),
		End:           start.Add(70 * time.Minute),
		Interruptions: 5,
	}
	if err := repo.Save(ctx, later); err != nil {
		t.Fatalf("Save (second) failed: %v", err)
	}

	sessions, err := repo.ListClosedBetween(ctx, start, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("ListClosedBetween failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	got := sessions[0]
	if !got.DeepWork || got.Keystrokes != 1200 || got.Interruptions != 2 {
		t.Errorf("unexpected first session: %+v", got)
	}
	if !got.Start.Equal(start) || !got.End.Equal(start.Add(30*time.Minute)) {
		t.Errorf("timestamps did not round-trip: %v to %v", got.Start, got.End)
	}
	if sessions[1].DeepWork {
		t.Error("second session should not be deep work")
	}

	// Window excludes sessions starting at or after end
	sessions, err = repo.ListClosedBetween(ctx, start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListClosedBetween (narrow) failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session in narrow window, got %d", len(sessions))
	}
}
