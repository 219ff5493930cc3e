package turso_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/emiliopalmerini/focusd/internal/adapters/turso"
	"github.com/emiliopalmerini/focusd/internal/domain"
)

func TestRawEventRepositoryAppendAndExpire(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := turso.NewRawEventRepository(db)

	old := domain.RawEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().AddDate(0, 0, -10),
		Type:      domain.RawKeycodeHistogram,
		Payload:   []byte(`{"36":12}`),
	}
	recent := domain.RawEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().Add(-time.Minute),
		Type:      domain.RawClickPositions,
		Payload:   []byte(`[{"x":0.5,"y":0.5}]`),
	}

	for _, ev := range []domain.RawEvent{old, recent} {
		if err := repo.Append(ctx, ev); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	deleted, err := repo.DeleteOlderThan(ctx, 7)
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 expired event, got %d", deleted)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM raw_events`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 surviving event, got %d", count)
	}
}
