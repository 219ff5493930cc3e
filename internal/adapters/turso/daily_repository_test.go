package turso_test

import (
	"context"
	"testing"

	"github.com/emiliopalmerini/focusd/internal/adapters/turso"
	"github.com/emiliopalmerini/focusd/internal/domain"
)

func TestDailyStatRepositoryWriteReplaces(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewDailyStatRepository(db)

	stat := domain.DailyStat{
		Date:               "2026-03-10",
		TotalActiveSeconds: 18000,
		TotalFocusSeconds:  12000,
		DeepWorkSeconds:    5400,
		TotalKeystrokes:    9000,
		TotalClicks:        600,
		ContextSwitches:    42,
		FocusScore:         71.5,
	}
	if err := repo.Write(ctx, stat); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Re-finalizing the day overwrites rather than duplicates
	stat.FocusScore = 74.0
	stat.ContextSwitches = 40
	if err := repo.Write(ctx, stat); err != nil {
		t.Fatalf("Write (replace) failed: %v", err)
	}

	got, err := repo.Read(ctx, "2026-03-10")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a row")
	}
	if got.FocusScore != 74.0 || got.ContextSwitches != 40 {
		t.Errorf("expected replaced values, got %+v", got)
	}
}

func TestDailyStatRepositoryReadMissing(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewDailyStatRepository(db)

	got, err := repo.Read(ctx, "2026-01-01")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for an unfinalized day, got %+v", got)
	}
}

func TestDailyStatRepositoryReadRange(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewDailyStatRepository(db)

	for _, date := range []string{"2026-03-12", "2026-03-10", "2026-03-11", "2026-02-01"} {
		if err := repo.Write(ctx, domain.DailyStat{Date: date, FocusScore: 50}); err != nil {
			t.Fatalf("Write %s failed: %v", date, err)
		}
	}

	stats, err := repo.ReadRange(ctx, "2026-03-10", "2026-03-11")
	if err != nil {
		t.Fatalf("ReadRange failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(stats))
	}
	if stats[0].Date != "2026-03-10" || stats[1].Date != "2026-03-11" {
		t.Errorf("expected date ordering, got %s then %s", stats[0].Date, stats[1].Date)
	}
}
