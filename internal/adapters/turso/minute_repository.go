package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emiliopalmerini/focusd/internal/domain"
)

type MinuteStatRepository struct {
	db *sql.DB
}

func NewMinuteStatRepository(db *sql.DB) *MinuteStatRepository {
	return &MinuteStatRepository{db: db}
}

func (r *MinuteStatRepository) Upsert(ctx context.Context, delta domain.MinuteStat) error {
	if !delta.HasCounters() {
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO minute_stats (minute, subject_id, keystrokes, clicks, scroll_distance, mouse_distance, active_seconds, idle_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(minute, subject_id) DO UPDATE SET
			keystrokes = keystrokes + excluded.keystrokes,
			clicks = clicks + excluded.clicks,
			scroll_distance = scroll_distance + excluded.scroll_distance,
			mouse_distance = mouse_distance + excluded.mouse_distance,
			active_seconds = active_seconds + excluded.active_seconds,
			idle_seconds = idle_seconds + excluded.idle_seconds
	`, delta.Minute, delta.SubjectID, delta.Keystrokes, delta.Clicks,
		delta.ScrollDistance, delta.MouseDistance, delta.ActiveSeconds, delta.IdleSeconds)
	if err != nil {
		return fmt.Errorf("failed to upsert minute stat: %w", err)
	}
	return nil
}

func (r *MinuteStatRepository) ReadRange(ctx context.Context, start, end time.Time) ([]domain.MinuteStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT minute, subject_id, keystrokes, clicks, scroll_distance, mouse_distance, active_seconds, idle_seconds
		FROM minute_stats
		WHERE minute >= ? AND minute < ?
		ORDER BY minute, subject_id
	`, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to read minute stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.MinuteStat
	for rows.Next() {
		var s domain.MinuteStat
		if err := rows.Scan(&s.Minute, &s.SubjectID, &s.Keystrokes, &s.Clicks,
			&s.ScrollDistance, &s.MouseDistance, &s.ActiveSeconds, &s.IdleSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan minute stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *MinuteStatRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Unix()
	res, err := r.db.ExecContext(ctx, `DELETE FROM minute_stats WHERE minute < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old minute stats: %w", err)
	}
	return res.RowsAffected()
}
