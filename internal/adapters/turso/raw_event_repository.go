package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type RawEventRepository struct {
	db *sql.DB
}

func NewRawEventRepository(db *sql.DB) *RawEventRepository {
	return &RawEventRepository{db: db}
}

func (r *RawEventRepository) Append(ctx context.Context, event domain.RawEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO raw_events (id, ts, event_type, payload) VALUES (?, ?, ?, ?)
	`, event.ID, event.Timestamp.Unix(), string(event.Type), event.Payload)
	if err != nil {
		return fmt.Errorf("failed to append raw event: %w", err)
	}
	return nil
}

func (r *RawEventRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	res, err := r.db.ExecContext(ctx, `DELETE FROM raw_events WHERE ts < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old raw events: %w", err)
	}
	return res.RowsAffected()
}
